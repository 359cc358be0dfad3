package main

import "eventix_backend/internal/app"

func main() {
	app.Run()
}
