package main

import (
	"flowsite-api/core/logger"
	"flowsite-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("Main:Run:Error", "error", err)
	}
}
