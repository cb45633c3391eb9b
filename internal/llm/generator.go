package llm

import (
	"context"
	"strings"

	"github.com/NehanAhmed/Forge/internal/pkg/plan"
	"go.uber.org/zap"
)

// Generator turns a project brief into a validated plan document, or a
// classified *GenerationError. It performs exactly one transport call per
// Generate; retry policy belongs to callers.
type Generator interface {
	Generate(ctx context.Context, brief plan.Brief) (*plan.Document, error)
}

type generator struct {
	cfg       Config
	transport Transport
	log       *zap.Logger
}

func NewGenerator(cfg Config, transport Transport, log *zap.Logger) Generator {
	return &generator{cfg: cfg, transport: transport, log: log}
}

func (g *generator) Generate(ctx context.Context, brief plan.Brief) (*plan.Document, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, &GenerationError{Kind: KindConfigMissing, Message: err.Error(), Err: err}
	}

	raw, err := g.transport.Complete(ctx, SystemPrompt, BuildUserPrompt(brief))
	if err != nil {
		genErr := classify(err)
		g.log.Warn("plan generation transport failed",
			zap.String("kind", string(genErr.Kind)),
			zap.Error(err))
		return nil, genErr
	}

	doc, perr := plan.Parse(raw)
	if perr != nil {
		if perr.Kind == plan.ParseMalformed {
			g.log.Warn("model output is not valid JSON",
				zap.String("decoder_error", perr.Message),
				zap.String("head", head(raw, 500)))
		} else {
			g.log.Warn("model output violates plan contract",
				zap.Strings("sections", perr.Sections))
		}
		return nil, &GenerationError{Kind: KindInvalidResponse, Message: perr.Error(), Err: perr}
	}
	return doc, nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
