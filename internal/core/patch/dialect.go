package patch

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// BootstrapSince is the first framework release that registers middleware
// through the application builder instead of the HTTP kernel.
const BootstrapSince = "v11.0.0"

// DialectKind identifies a middleware registration format.
type DialectKind int

const (
	// DialectKernel is the alias map on the HTTP kernel class.
	DialectKernel DialectKind = iota
	// DialectBootstrap is the ->withMiddleware() call on the application builder.
	DialectBootstrap
)

func (k DialectKind) String() string {
	switch k {
	case DialectKernel:
		return "kernel"
	case DialectBootstrap:
		return "bootstrap"
	}
	return fmt.Sprintf("DialectKind(%d)", int(k))
}

// Dialect registers a route middleware alias in its own document format.
type Dialect interface {
	Kind() DialectKind
	RegisterAlias(src string, alias Fragment) (Result, error)
}

// SelectDialect picks the registration format for a framework version.
// Versions may carry a leading "v" and may omit minor and patch parts.
func SelectDialect(version string) (Dialect, error) {
	v, err := CanonicalVersion(version)
	if err != nil {
		return nil, err
	}
	if semver.Compare(v, BootstrapSince) < 0 {
		return KernelDialect{}, nil
	}
	return BootstrapDialect{}, nil
}

// CanonicalVersion normalises version to the "vX.Y.Z" form used for
// comparison.
func CanonicalVersion(version string) (string, error) {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return "", &DialectMismatchError{Version: version}
	}
	v := "v" + strings.TrimPrefix(strings.TrimPrefix(trimmed, "v"), "V")
	if !semver.IsValid(v) {
		return "", &DialectMismatchError{Version: version}
	}
	return semver.Canonical(v), nil
}

// KernelDialect edits app/Http/Kernel.php.
type KernelDialect struct{}

func (KernelDialect) Kind() DialectKind { return DialectKernel }

// RegisterAlias upserts into $middlewareAliases, or $routeMiddleware on
// kernels that predate the rename.
func (KernelDialect) RegisterAlias(src string, alias Fragment) (Result, error) {
	res, err := Upsert(src, Property("middlewareAliases"), alias)
	if !errors.Is(err, ErrNotApplicable) {
		return res, err
	}
	if legacy, legacyErr := Upsert(src, Property("routeMiddleware"), alias); legacyErr == nil {
		return legacy, nil
	}
	return Result{}, err
}

// BootstrapDialect edits bootstrap/app.php.
type BootstrapDialect struct{}

func (BootstrapDialect) Kind() DialectKind { return DialectBootstrap }

const middlewareImport = `Illuminate\Foundation\Configuration\Middleware`

// RegisterAlias adds alias to the application builder chain. An existing
// ->withMiddleware() call is extended; otherwise a new call is chained in
// front of ->create().
func (BootstrapDialect) RegisterAlias(src string, alias Fragment) (Result, error) {
	doc, err := Parse(src)
	if err != nil {
		return Result{}, err
	}

	call := findCall(doc, doc.all(), "withMiddleware")
	if call < 0 {
		return addMiddlewareCall(doc, alias)
	}

	args := span{call + 3, doc.pair[call+2]}
	region, err := doc.regionWithin(Call("alias"), args)
	if err == nil {
		return finish(doc.upsert(region, alias))
	}
	if !errors.Is(err, ErrNotApplicable) {
		return Result{}, err
	}
	return addAliasStatement(doc, args, alias)
}

// findCall returns the index of the "->" token of the first ->name( call in s.
func findCall(d *Document, s span, name string) int {
	for i := s.lo; i < s.hi; i++ {
		if d.is(i, tokObjectOp, "") && d.is(i+1, tokIdent, name) && d.is(i+2, tokOpen, "(") {
			return i
		}
	}
	return -1
}

func aliasStatement(variable string, alias Fragment) string {
	return variable + "->alias([\n" +
		indentLines(alias.Source()+",", indentUnit, false) + "\n" +
		"]);"
}

// addAliasStatement writes a $middleware->alias([...]) statement into the
// closure passed to ->withMiddleware().
func addAliasStatement(d *Document, args span, alias Fragment) (Result, error) {
	body := -1
	variable := "$middleware"
	for i := args.lo; i < args.hi; i++ {
		if d.toks[i].kind == tokVariable && body < 0 {
			variable = d.toks[i].text
		}
		if d.is(i, tokOpen, "{") {
			body = i
			break
		}
	}
	if body < 0 {
		return Result{}, &NotApplicableError{Region: "->withMiddleware() closure body"}
	}

	src := d.src
	open, closeAt := d.toks[body].start, d.toks[d.pair[body]].start
	indent := lineIndent(src, closeAt) + indentUnit
	stmt := aliasStatement(variable, alias)

	// A body holding nothing but the stock "//" placeholder is replaced.
	if strings.TrimSpace(src[open+1:closeAt]) == "//" {
		text := src[:open+1] + "\n" + indentLines(stmt, indent, false) + "\n" + lineIndent(src, closeAt) + src[closeAt:]
		return finish(Result{Text: text, Outcome: Inserted})
	}
	text := apply(src, []edit{insertBefore(src, open, closeAt, stmt, indent)})
	return finish(Result{Text: text, Outcome: Inserted})
}

// addMiddlewareCall chains a new ->withMiddleware() call in front of
// ->create() and imports the Middleware class it type-hints.
func addMiddlewareCall(d *Document, alias Fragment) (Result, error) {
	marker := -1
	for i := len(d.toks) - 1; i >= 0; i-- {
		if d.is(i, tokObjectOp, "") && d.is(i+1, tokIdent, "create") && d.is(i+2, tokOpen, "(") {
			marker = i
			break
		}
	}
	if marker < 0 {
		return Result{}, &NotApplicableError{Region: "->create() end marker"}
	}

	src := d.src
	pos := d.toks[marker].start
	call := "->withMiddleware(function (Middleware $middleware) {\n" +
		indentLines(aliasStatement("$middleware", alias), indentUnit, false) + "\n" +
		"})"
	text := apply(src, []edit{insertBefore(src, 0, pos, call, lineIndent(src, pos))})
	return finish(Result{Text: ensureImport(text, middlewareImport), Outcome: Inserted})
}

// ensureImport adds "use class;" after the last top-level import, or after
// the opening tag when the file has none.
func ensureImport(src, class string) string {
	doc, err := Parse(src)
	if err != nil {
		return src
	}
	depth := 0
	lastUse := -1
	for i, t := range doc.toks {
		switch t.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
		case tokIdent:
			if depth != 0 || !strings.EqualFold(t.text, "use") || !doc.is(i+1, tokIdent, "") {
				continue
			}
			if strings.TrimPrefix(doc.toks[i+1].text, `\`) == class {
				return src
			}
			for j := i + 1; j < len(doc.toks); j++ {
				if doc.toks[j].kind == tokSemicolon {
					lastUse = doc.toks[j].end
					break
				}
			}
		}
	}
	stmt := "use " + class + ";"
	if lastUse >= 0 {
		return src[:lastUse] + "\n" + stmt + src[lastUse:]
	}
	if strings.HasPrefix(src, "<?php") {
		nl := strings.IndexByte(src, '\n')
		if nl < 0 {
			return src + "\n\n" + stmt + "\n"
		}
		return src[:nl+1] + "\n" + stmt + "\n" + src[nl+1:]
	}
	return stmt + "\n" + src
}
