package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"library-backend/pkg/container"
)

// buildFunc constructs the dependency container; tests swap in a SQLite-backed one
type buildFunc func(ctx context.Context) (*container.Container, error)

// app lazily builds the container the first time a command needs it
type app struct {
	build buildFunc
	c     *container.Container
}

func (a *app) container(ctx context.Context) (*container.Container, error) {
	if a.c != nil {
		return a.c, nil
	}
	c, err := a.build(ctx)
	if err != nil {
		return nil, fmt.Errorf("init container: %w", err)
	}
	a.c = c
	return c, nil
}

func (a *app) close() {
	if a.c != nil {
		a.c.Cleanup()
		a.c = nil
	}
}

func newRootCmd(build buildFunc) *cobra.Command {
	a := &app{build: build}

	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Operate the library backend from the command line",
		SilenceUsage:  true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newReconcileCmd(a),
		newExportCmd(a),
		newReportsCmd(a),
		newStaffCmd(a),
	)
	return root
}
