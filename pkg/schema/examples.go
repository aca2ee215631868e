package schema

import (
	"log/slog"
	"path/filepath"

	"github.com/fiware-datamodels/dmv/pkg/report"
)

// ValidateExamples validates every example*.json of dir against v.
//
// When v is nil (the schema did not compile) a single error is recorded for
// the directory and no example is attempted.
func (e *Engine) ValidateExamples(rec *report.Recorder, dir string, v *Validator) error {
	files, err := Examples(dir)
	if err != nil {
		return err
	}

	if v == nil {
		return rec.Error(dir, "Examples cannot be validated since "+
			"validation function cannot be computed. Probably not all schemas "+
			"can be resolved correctly (check schema errors)")
	}

	for _, file := range files {
		doc, err := LoadFile(file)
		if err != nil {
			return err
		}

		name := filepath.Base(file)
		if verr := v.Validate(doc); verr != nil {
			e.logger.Debug("invalid example", slog.String("file", file), slog.Any("error", verr))
			if err := rec.Error(dir, "Example "+name+" is invalid: "+DescribeError(verr)); err != nil {
				return err
			}
			continue
		}

		e.logger.Debug("valid example", slog.String("file", file))
		rec.ValidExample(dir, name+" is valid")
	}
	return nil
}
