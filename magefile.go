//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "swarsense"

// Default target to run when none is specified
var Default = Build

// Build compiles the swarsense binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/swarsense")
}

// Install installs swarsense into $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/swarsense")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Cover writes a coverage profile and prints a summary
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Dict downloads the CMU pronouncing dictionary
func Dict() error {
	const url = "https://raw.githubusercontent.com/cmusphinx/cmudict/master/cmudict.dict"
	if _, err := os.Stat("cmudict.dict"); err == nil {
		fmt.Println("cmudict.dict already present")
		return nil
	}
	return sh.RunV("curl", "-fsSL", "-o", "cmudict.dict", url)
}

// Clean removes build artifacts
func Clean() error {
	for _, f := range []string{binary, "coverage.out", filepath.Join("dist", binary)} {
		if err := sh.Rm(f); err != nil {
			return err
		}
	}
	return nil
}
