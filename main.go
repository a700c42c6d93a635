package main

import "github.com/CORREAK18/Biometrico-App/cmd"

func main() {
	cmd.Execute()
}
