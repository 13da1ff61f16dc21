package main

import (
	"fmt"
	"os"

	_ "helpdesk-automation/docs" // Swagger docs
)

// @title       Helpdesk Automation API
// @description Knowledge-base helpdesk with LLM classification, human escalation and memory-aware chat.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
