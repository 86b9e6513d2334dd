//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the storage-quest project using Mage.
//
// Usage:
//
//	mage build             Compile storage-quest binary to bin/
//	mage test:all          Run all tests
//	mage test:unit         Run package tests (exclude the binary tests)
//	mage test:integration  Run tests that build and drive the binary
//	mage vet               Run go vet
//	mage lint              Run go vet and golangci-lint
//	mage serve             Build and start the HTTP server
//	mage clean             Remove build artifacts
//	mage install           Install storage-quest to GOPATH/bin
//	mage stats             Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "storage-quest"
	binaryDir  = "bin"
	cmdDir     = "./cmd/storage-quest"
)

// Build compiles the storage-quest binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Serve builds the binary and runs the HTTP server in the foreground.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve")
}
