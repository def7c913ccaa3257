// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dacolabs/refgen/internal/generate"
	"github.com/dacolabs/refgen/internal/logger"
	"github.com/dacolabs/refgen/internal/pipeline"
	"github.com/dacolabs/refgen/internal/refgenerr"
	"github.com/dacolabs/refgen/internal/session"
	"github.com/dacolabs/refgen/internal/translate"
)

// build is one in-memory compilation of the project's reference document.
type build struct {
	project    *session.Context
	translator translate.Translator
	result     *pipeline.Result
	output     *pipeline.Output
}

// runBuild compiles and renders the project loaded into cmd's context.
// format overrides the configured one when set.
func runBuild(cmd *cobra.Command, translators translate.Register, format string) (*build, error) {
	project, err := session.RequireFromCommand(cmd)
	if err != nil {
		return nil, err
	}
	cfg := project.Config
	if format == "" {
		format = cfg.Format
	}
	t, err := translators.Get(format)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(cmd.Context()).With(
		zap.String(logger.FieldInput, cfg.Input),
		zap.String(logger.FieldFormat, format),
	)

	start := time.Now()
	res, err := pipeline.Compile(cfg.Input, project.Input, generate.Options{RootName: cfg.Root})
	if err != nil {
		return nil, refgenerr.Wrapf(err, "compile %s", cfg.Input)
	}
	stats := pipeline.Count(res.Declarations)
	log.Info("compiled",
		zap.Int(logger.FieldCount, stats.Total()),
		zap.Int(logger.FieldRelations, len(res.Relations)),
	)
	log.Debug("compile timing",
		zap.String(logger.FieldStage, "compile"),
		zap.Int64(logger.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	if logger.ShouldLogTrace(verbosity(cmd)) {
		for _, d := range res.Declarations {
			log.Debug("declaration",
				zap.String(logger.FieldDecl, d.DeclName()),
				zap.String(logger.FieldKind, translate.Kind(d)),
			)
		}
	}

	start = time.Now()
	opts := translate.Options{Package: cfg.Package, Source: filepath.Base(cfg.Input)}
	out, err := pipeline.Render(res, t, opts, cfg.Tests)
	if err != nil {
		return nil, err
	}
	log.Info("rendered", zap.Int(logger.FieldBytes, len(out.Code)))
	log.Debug("render timing",
		zap.String(logger.FieldStage, "render"),
		zap.Int64(logger.FieldDurationMS, time.Since(start).Milliseconds()),
	)

	return &build{project: project, translator: t, result: res, output: out}, nil
}

// files lists the rendered outputs keyed by their config-relative path.
func (b *build) files(output string) []renderedFile {
	files := []renderedFile{{path: output, data: b.output.Code}}
	if b.output.Tests != nil {
		cfg := *b.project.Config
		cfg.Output = output
		files = append(files, renderedFile{path: cfg.TestsOutput(), data: b.output.Tests})
	}
	return files
}

type renderedFile struct {
	path string
	data []byte
}
