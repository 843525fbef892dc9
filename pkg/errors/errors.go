// Package errors provides coded errors for openclaw-sec. Codes follow the
// <area>.<object>.<reason> shape so callers can classify failures without
// string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeRulesCompileInvalid   Code = "rules.compile.invalid"
	CodeRulesLoadReadFailure  Code = "rules.load.read.failure"
	CodeManifestParseInvalid  Code = "integrity.manifest.parse.invalid"
	CodeManifestReadFailure   Code = "integrity.manifest.read.failure"
	CodeManifestWriteFailure  Code = "integrity.manifest.write.failure"
	CodeReportWriteFailure    Code = "report.write.failure"
	CodeAllowlistWriteFailure Code = "allowlist.write.failure"
	CodeConfigParseInvalid    Code = "config.parse.invalid_format"
	CodeConfigWriteFailure    Code = "config.write.failure"
	CodeCLIInputMissing       Code = "cli.input.missing"
	CodeCLIInputInvalid       Code = "cli.input.invalid"
	CodeCLIInputReadFailure   Code = "cli.input.read.failure"
	CodeScanInternalFailure   Code = "scan.internal.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}
	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(code).Wrapf(err, format, args...)
}

// CodeOf returns the code of the outermost coded error in the chain, or ""
// when err carries none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}
	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}
	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_format" || r == "missing"
}

// Is and As re-export the standard helpers so callers need one import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func reason(code Code) string {
	s := string(code)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func flatten(fields []Attr) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
