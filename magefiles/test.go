//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// integrationPkg holds the tests that build and run the binary.
const integrationPkg = "/cmd/storage-quest"

// Test groups test targets (all, unit, integration).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs package tests, excluding the binary tests.
func (Test) Unit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && !strings.HasSuffix(pkg, integrationPkg) {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test", "-race"}, unitPkgs...)
	return sh.RunV(binGo, args...)
}

// Integration runs the tests that build and drive the binary.
func (Test) Integration() error {
	return sh.RunV(binGo, "test", "-v", "."+integrationPkg+"/...")
}
