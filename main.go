package main

import "github.com/vibast-solutions/ms-go-billing-gateway/cmd"

func main() {
	cmd.Execute()
}
