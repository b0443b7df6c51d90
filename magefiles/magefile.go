//go:build mage

// Package main provides build targets for tada using Mage.
//
// Usage:
//
//	mage build     Compile the tada binary to bin/
//	mage test      Run all tests
//	mage race      Run all tests with the race detector
//	mage lint      Run go vet and golangci-lint
//	mage serve     Build, then start a local server on :3000
//	mage clean     Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "tada"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tada"
	versionVar = "github.com/Makepad-fr/tada/internal/cli.Version"
)

var Default = Build

// Build compiles the tada binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := "-X " + versionVar + "=" + version()
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

func Test() error {
	return sh.RunV("go", "test", "./...")
}

func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet, then golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve starts a local server with a JSON store in bin/.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve",
		"--store", "json", "--data", filepath.Join(binaryDir, "todos.json"))
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// version is the git describe output, or "dev" outside a checkout.
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}
