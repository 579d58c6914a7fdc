/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ENCODE-DCC/wgot/cmd"

func main() {
	cmd.Execute()
}
