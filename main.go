package main

import "github.com/aoineco/openclaw-sec/cmd/openclawsec"

func main() {
	openclawsec.Execute()
}
