package urlhandler

import (
	"fmt"
)

// ErrorKind classifies why a URL was rejected.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindEmptyInput
	KindDisallowedScheme
	KindInvalidScheme
	KindAuthNotAllowed
	KindMissingHost
	KindDisallowedHost
	KindPrivateIPNotAllowed
	KindInvalidDomainLabel
	KindDomainTooLong
	KindInvalidPort
	KindPathTooLong
	KindPathTraversal
	KindUncPathDisallowed
	KindQueryTooLong
	KindNullByte
	KindControlCharacter
	KindXSSPattern
	KindSQLiPattern
	KindCmdInjectionPattern
	KindResolutionFailed
	KindNormalizationFailed
	KindInternalError
)

var errorKindNames = map[ErrorKind]string{
	KindNone:                "None",
	KindEmptyInput:          "EmptyInput",
	KindDisallowedScheme:    "DisallowedScheme",
	KindInvalidScheme:       "InvalidScheme",
	KindAuthNotAllowed:      "AuthNotAllowed",
	KindMissingHost:         "MissingHost",
	KindDisallowedHost:      "DisallowedHost",
	KindPrivateIPNotAllowed: "PrivateIpNotAllowed",
	KindInvalidDomainLabel:  "InvalidDomainLabel",
	KindDomainTooLong:       "DomainTooLong",
	KindInvalidPort:         "InvalidPort",
	KindPathTooLong:         "PathTooLong",
	KindPathTraversal:       "PathTraversal",
	KindUncPathDisallowed:   "UncPathDisallowed",
	KindQueryTooLong:        "QueryTooLong",
	KindNullByte:            "NullByte",
	KindControlCharacter:    "ControlCharacter",
	KindXSSPattern:          "XssPattern",
	KindSQLiPattern:         "SqliPattern",
	KindCmdInjectionPattern: "CmdInjectionPattern",
	KindResolutionFailed:    "ResolutionFailed",
	KindNormalizationFailed: "NormalizationFailed",
	KindInternalError:       "InternalError",
}

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// URLError is returned by every pipeline stage.
type URLError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *URLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	if e.Reason == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *URLError) Unwrap() error {
	return e.Err
}

// Is matches any *URLError of the same kind, so the Err* sentinels work with errors.Is.
func (e *URLError) Is(target error) bool {
	t, ok := target.(*URLError)
	return ok && t.Kind == e.Kind
}

func newURLError(kind ErrorKind, format string, args ...any) *URLError {
	return &URLError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func wrapURLError(kind ErrorKind, err error, reason string) *URLError {
	return &URLError{Kind: kind, Reason: reason, Err: err}
}

// Sentinels for errors.Is.
var (
	ErrEmptyInput          = &URLError{Kind: KindEmptyInput}
	ErrDisallowedScheme    = &URLError{Kind: KindDisallowedScheme}
	ErrInvalidScheme       = &URLError{Kind: KindInvalidScheme}
	ErrAuthNotAllowed      = &URLError{Kind: KindAuthNotAllowed}
	ErrMissingHost         = &URLError{Kind: KindMissingHost}
	ErrDisallowedHost      = &URLError{Kind: KindDisallowedHost}
	ErrPrivateIPNotAllowed = &URLError{Kind: KindPrivateIPNotAllowed}
	ErrInvalidDomainLabel  = &URLError{Kind: KindInvalidDomainLabel}
	ErrDomainTooLong       = &URLError{Kind: KindDomainTooLong}
	ErrInvalidPort         = &URLError{Kind: KindInvalidPort}
	ErrPathTooLong         = &URLError{Kind: KindPathTooLong}
	ErrPathTraversal       = &URLError{Kind: KindPathTraversal}
	ErrUncPathDisallowed   = &URLError{Kind: KindUncPathDisallowed}
	ErrQueryTooLong        = &URLError{Kind: KindQueryTooLong}
	ErrNullByte            = &URLError{Kind: KindNullByte}
	ErrControlCharacter    = &URLError{Kind: KindControlCharacter}
	ErrXSSPattern          = &URLError{Kind: KindXSSPattern}
	ErrSQLiPattern         = &URLError{Kind: KindSQLiPattern}
	ErrCmdInjectionPattern = &URLError{Kind: KindCmdInjectionPattern}
	ErrResolutionFailed    = &URLError{Kind: KindResolutionFailed}
	ErrNormalizationFailed = &URLError{Kind: KindNormalizationFailed}
	ErrInternalError       = &URLError{Kind: KindInternalError}
)

// SeedError reports a seed URL that cannot start a crawl.
type SeedError struct {
	Seed string
	Kind ErrorKind
	Err  error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("invalid seed URL '%s' (%s): %v", e.Seed, e.Kind, e.Err)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}
