package main

import (
	"github.com/fatih/color"
)

// shell color schemes
var (
	White  = color.New(color.FgHiWhite).SprintFunc()
	Green  = color.New(color.FgHiGreen).SprintFunc()
	Red    = color.New(color.FgHiRed).SprintFunc()
	Header = color.New(color.FgHiCyan).SprintFunc()
	Prompt = color.New(color.FgHiYellow).SprintFunc()
	Handle = color.New(color.FgYellow).SprintFunc()
)

// ReqColor colors the required arguments of a command Format
func ReqColor(required ...interface{}) string {
	var s string
	for i := 0; i < len(required); i++ {
		s += " <"
		s += White(required[i])
		s += ">"
	}
	return s
}

// OptColor colors the optional arguments of a command Format
func OptColor(optional ...interface{}) string {
	var s string
	var tail string
	for i := 0; i < len(optional); i++ {
		s += " [<"
		s += White(optional[i])
		s += ">"
		tail += "]"
	}
	return s + tail
}
