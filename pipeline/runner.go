package pipeline

import (
	"fmt"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/sequence"
)

// Run chains ops onto p in order, exactly like repeated calls to Chain.
// Nothing runs until the returned pipeline is iterated. A nil operation is a
// configuration error reported by the returned pipeline.
func Run(p *Pipeline, ops ...sequence.Operation) *Pipeline {
	log := logger.Get(logger.ComponentRunner)
	names := make([]string, 0, len(ops))
	for i, op := range ops {
		if op == nil {
			err := errors.Configuration("run", fmt.Sprintf("operation %d is nil", i)).WithDetail("index", i)
			log.Debug("operation rejected", logger.ErrorFields("run", err))
			return p.bind(nil, err)
		}
		p = p.Chain(op)
		names = append(names, sequence.NameOf(op))
	}
	log.Debug("operations chained", logger.Fields(
		logger.FieldOperation, names,
		logger.FieldOperations, len(names),
	))
	return p
}

// Run chains ops onto p. See the package-level Run.
func (p *Pipeline) Run(ops ...sequence.Operation) *Pipeline {
	return Run(p, ops...)
}
