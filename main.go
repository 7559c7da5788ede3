package main

import "github.com/pagoda8/Walking-Buddy-sub000/cmd"

func main() {
	cmd.Run()
}
