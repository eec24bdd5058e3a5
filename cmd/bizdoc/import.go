package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	bizdoc "github.com/alnah/go-bizdoc"
	"github.com/alnah/go-bizdoc/internal/store"
)

// runImport stores document files and prints one ID per stored document.
func runImport(ctx context.Context, args []string, env *Environment) error {
	f, inputs, err := parseImportFlags(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}
	status := bizdoc.Status(f.status)
	if status != "" && !status.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrUsage, bizdoc.ErrInvalidStatus, f.status)
	}

	cfg, err := loadConfig(f.common.config, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, f.common)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	docs, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = docs.Close() }()

	var errs []error
	for _, input := range inputs {
		doc, err := readDocument(input)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if status != "" {
			doc.Status = status
		}
		if err := docs.Create(ctx, doc); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", input, err))
			continue
		}
		logger.Debug("document imported", zap.String("id", doc.ID), zap.String("file", input))
		fmt.Fprintln(env.Stdout, doc.ID)
	}
	return errors.Join(errs...)
}
