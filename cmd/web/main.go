package main

import "fwork_backend/internal/app"

func main() {
	app.Run()
}
