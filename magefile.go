//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target when running mage without arguments.
var Default = Build

// Build builds the server binary.
func Build() error {
	mg.Deps(Generate)
	fmt.Println("Building server...")
	return sh.Run("go", "build", "-o", "bin/server", "./cmd/server")
}

// Generate runs all code generation.
func Generate() error {
	mg.Deps(Swagger)
	return nil
}

// Swagger regenerates cmd/server/docs from the handler annotations.
func Swagger() error {
	fmt.Println("Generating swagger docs...")
	return sh.Run("swag", "init",
		"--generalInfo", "cmd/server/docs.go",
		"--dir", "./",
		"--output", "cmd/server/docs",
		"--outputTypes", "go",
		"--parseInternal",
	)
}

// Test runs all tests.
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-v", "-race", "./...")
}

// TestIntegration runs the Postgres adapter tests against RETURNS_TEST_DATABASE_DSN.
// The database is truncated, so never point it at real data.
func TestIntegration() error {
	if os.Getenv("RETURNS_TEST_DATABASE_DSN") == "" {
		return fmt.Errorf("RETURNS_TEST_DATABASE_DSN is not set")
	}
	fmt.Println("Running integration tests...")
	return sh.RunV("go", "test", "-count=1", "./internal/adapter/outbound/postgres/...")
}

// TestCover runs tests with coverage.
func TestCover() error {
	fmt.Println("Running tests with coverage...")
	return sh.Run("go", "test", "-cover", "-coverprofile=coverage.out", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	fmt.Println("Running linter...")
	return sh.Run("golangci-lint", "run", "./...")
}

// Vet runs go vet.
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	_ = os.Remove("coverage.out")
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println("Running go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// All runs tidy, generate, vet, lint, test, and build.
func All() error {
	mg.SerialDeps(Tidy, Generate, Vet, Lint, Test, Build)
	return nil
}

// Dev builds and runs the server for development.
// Configuration comes from ./configs/config.yaml and RETURNS_* environment variables.
func Dev() error {
	mg.Deps(Build)
	fmt.Println("Starting server...")
	cmd := exec.Command("./bin/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// CI runs the CI pipeline (tidy, vet, test with coverage).
func CI() error {
	mg.SerialDeps(Tidy, Vet, TestCover)
	return nil
}

// Install installs development tools.
func Install() error {
	fmt.Println("Installing development tools...")

	tools := []string{
		"github.com/swaggo/swag/cmd/swag@v1.16.6",
		"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	}

	for _, tool := range tools {
		fmt.Printf("  Installing %s\n", tool)
		if err := sh.Run("go", "install", tool); err != nil {
			return fmt.Errorf("installing %s: %w", tool, err)
		}
	}

	return nil
}
