package main

import "github.com/nhle/missionboard/cmd/missionboard/root"

func main() {
	root.Execute()
}
