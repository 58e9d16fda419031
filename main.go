/*
Copyright © 2026 COLE BRAMER
*/
package main

import "github.com/colebramer/sqlpulse/cmd"

func main() {
	cmd.Execute()
}
