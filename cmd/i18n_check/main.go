// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_check cross-checks the message keys referenced from Go
// sources against the locale catalogs under locales/.
//
// A key used in code but absent from the reference catalog is an error:
// it would render as its raw dotted path at runtime. A reference key no
// code uses is reported as a warning, since stale keys inflate the
// completeness scores every other locale is measured against.
package main

import (
	"cmp"
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/i18n/messages"
)

// usage is one source location referencing a message key.
type usage struct {
	path string
	line int
}

// scanner walks one package's syntax trees collecting message key
// usages into the shared found map.
type scanner struct {
	found   map[string][]usage
	root    string
	fset    *token.FileSet
	info    *types.Info
	keyPkgs map[string]struct{}
}

func main() {
	outPath := flag.String("o", "", "write the extracted key listing to this file")
	strict := flag.Bool("strict", false, "treat unused reference keys as errors")
	ignore := flag.String("ignore", "meta.", "comma-separated key prefixes exempt from the unused check")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	// Test files are excluded so the fixture catalogs inlined in _test.go
	// files do not count as usage.
	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, "./...")
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	root := projectRoot(wd)

	found := scanPackages(pkgs, root, messageKeyPackages(pkgs))

	catalogs, err := messages.Load(os.DirFS(root), "locales")
	if err != nil {
		log.Fatalf("failed to load locale catalogs: %v", err)
	}

	base := i18n.DefaultBaseLocale

	reference, ok := catalogs[base]
	if !ok {
		log.Fatalf("no %s catalog found under locales/", base)
	}

	keys := make([]string, 0, len(found))
	for k := range found {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	var missing int

	for _, k := range keys {
		if _, ok := reference.Lookup(k); ok {
			continue
		}

		missing++

		fmt.Printf("missing from %s: %s\n", base, k)

		for _, u := range sortUsages(found[k]) {
			fmt.Printf("  %s:%d\n", u.path, u.line)
		}
	}

	prefixes := splitPrefixes(*ignore)

	var unused int

	for path := range reference.Leaves() {
		if _, ok := found[path]; ok {
			continue
		}

		if hasAnyPrefix(path, prefixes) {
			continue
		}

		unused++

		fmt.Printf("unused in code: %s\n", path)
	}

	if missing == 0 && unused == 0 {
		fmt.Printf("all %d keys resolve against %s\n", len(keys), base)
	}

	if *outPath != "" {
		if err := writeListing(*outPath, keys, found); err != nil {
			log.Fatalf("failed to write key listing to %s: %v", *outPath, err)
		}
	}

	if missing > 0 || (*strict && unused > 0) {
		os.Exit(1)
	}
}

// scanPackages collects message key usages from every loaded package
// into one map keyed by message key.
func scanPackages(pkgs []*packages.Package, root string, keyPkgs map[string]struct{}) map[string][]usage {
	found := map[string][]usage{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		s := &scanner{
			found:   found,
			root:    root,
			fset:    p.Fset,
			info:    p.TypesInfo,
			keyPkgs: keyPkgs,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, s.visit)
		}
	}

	return found
}

// messageKeyPackages returns the import paths of every package in the
// build named i18n that defines MsgKey as a string type. Matching on
// the type rather than a hardcoded import path keeps the tool working
// across import aliases and module renames.
func messageKeyPackages(pkgs []*packages.Package) map[string]struct{} {
	found := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			found[p.PkgPath] = struct{}{}
		}
	}

	return found
}

func (s *scanner) visit(n ast.Node) bool {
	switch x := n.(type) {
	case *ast.CallExpr:
		s.scanCall(x)
	case *ast.CompositeLit:
		s.scanLiteral(x)
	}

	return true
}

// scanCall covers the three ways a key reaches the i18n package through
// a call expression: an explicit MsgKey conversion, a direct Tr or
// NewUserError call, and an implicit conversion at any call boundary
// whose parameter is MsgKey-typed.
func (s *scanner) scanCall(x *ast.CallExpr) {
	// A CallExpr whose Fun is a type is a conversion, MsgKey("nav.home").
	if tv, ok := s.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && s.isMessageKey(tv.Type) {
			s.recordConst(x.Args[0])
		}

		return
	}

	// Tr and NewUserError take the key as the argument after ctx.
	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := s.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil {
			if _, ours := s.keyPkgs[fn.Pkg().Path()]; ours {
				if name := fn.Name(); name == "Tr" || name == "NewUserError" {
					if len(x.Args) >= 2 {
						s.recordConst(x.Args[1])
					}

					return
				}
			}
		}
	}

	// TypeOf resolves both qualified and local function expressions.
	sig, ok := s.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	spread := x.Ellipsis != token.NoPos

	for i, arg := range x.Args {
		pt, ok := paramType(sig, i, spread)
		if !ok {
			break
		}

		if s.isMessageKey(pt) {
			s.recordConst(arg)
		}
	}
}

// paramType resolves the declared type of argument i, expanding a
// variadic parameter to its element type. ok is false once i runs past
// the signature, or when the call spreads a slice into the variadic
// slot; spread slices are picked apart by the literal scan instead.
func paramType(sig *types.Signature, i int, spread bool) (types.Type, bool) {
	params := sig.Params()
	last := params.Len() - 1

	if !sig.Variadic() || i < last {
		if i > last {
			return nil, false
		}

		return params.At(i).Type(), true
	}

	if spread {
		return nil, false
	}

	return params.At(last).Type().(*types.Slice).Elem(), true
}

// scanLiteral finds keys that enter MsgKey-typed slots of a composite
// literal, where conversion is implicit and scanCall never sees them.
func (s *scanner) scanLiteral(x *ast.CompositeLit) {
	tv, ok := s.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	// Unwrap one level of pointer so &T{...} scans like T{...}.
	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok && p.Elem() != nil {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		s.scanMapLiteral(u, x.Elts)
	case *types.Slice:
		s.scanListLiteral(u.Elem(), x.Elts)
	case *types.Array:
		s.scanListLiteral(u.Elem(), x.Elts)
	case *types.Struct:
		s.scanStructLiteral(u, x.Elts)
	}
}

func (s *scanner) scanMapLiteral(m *types.Map, elts []ast.Expr) {
	keyed := s.isMessageKey(m.Key())

	valued := s.isMessageKey(m.Elem())
	if !keyed && !valued {
		return
	}

	for _, elt := range elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}

		if keyed {
			s.recordConst(kv.Key)
		}

		if valued {
			s.recordConst(kv.Value)
		}
	}
}

func (s *scanner) scanListLiteral(elem types.Type, elts []ast.Expr) {
	if !s.isMessageKey(elem) {
		return
	}

	for _, elt := range elts {
		s.recordConst(elt)
	}
}

func (s *scanner) scanStructLiteral(u *types.Struct, elts []ast.Expr) {
	for i, elt := range elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			id, ok := kv.Key.(*ast.Ident)
			if ok && s.isMessageKey(structFieldType(u, id.Name)) {
				s.recordConst(kv.Value)
			}

			continue
		}

		// Unkeyed literals assign fields in declaration order.
		if i < u.NumFields() && s.isMessageKey(u.Field(i).Type()) {
			s.recordConst(elt)
		}
	}
}

func structFieldType(u *types.Struct, name string) types.Type {
	for i := range u.NumFields() {
		if f := u.Field(i); f.Name() == name {
			return f.Type()
		}
	}

	return nil
}

// isMessageKey reports whether t is the MsgKey type of a recognised
// i18n package. Aliases resolve to the named type behind them, so they
// match too.
func (s *scanner) isMessageKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Name() != "MsgKey" {
		return false
	}

	_, ok = s.keyPkgs[obj.Pkg().Path()]

	return ok
}

// recordConst records expr as a key usage when it is a compile-time
// string constant. Literals, named consts and constant concatenations
// all qualify; anything runtime-valued is invisible to this tool.
func (s *scanner) recordConst(expr ast.Expr) {
	tv, ok := s.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return
	}

	pos := s.fset.Position(expr.Pos())

	path := pos.Filename
	if rel, err := filepath.Rel(s.root, path); err == nil {
		path = rel
	}

	key := constant.StringVal(tv.Value)

	s.found[key] = append(s.found[key], usage{path: filepath.ToSlash(path), line: pos.Line})
}

// writeListing emits every key with its deduplicated source references,
// in the comment format translation tooling already understands.
func writeListing(path string, keys []string, found map[string][]usage) error {
	var b strings.Builder

	for i, k := range keys {
		if i > 0 {
			fmt.Fprintln(&b)
		}

		b.WriteString("#:")

		var prev usage

		for _, u := range sortUsages(found[k]) {
			// Sorting makes duplicates adjacent, so one held value
			// dedupes without a per-key set.
			if u == prev {
				continue
			}

			fmt.Fprintf(&b, " %s:%d", u.path, u.line)

			prev = u
		}

		fmt.Fprintf(&b, "\n%s\n", k)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func sortUsages(us []usage) []usage {
	slices.SortFunc(us, func(a, b usage) int {
		if c := strings.Compare(a.path, b.path); c != 0 {
			return c
		}

		return cmp.Compare(a.line, b.line)
	})

	return us
}

func splitPrefixes(list string) []string {
	var out []string

	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}

// projectRoot picks the directory source references are made relative
// to and which holds locales/. The git worktree root wins, then the
// nearest enclosing module, then wd itself.
func projectRoot(wd string) string {
	if out := gitToplevel(wd); out != "" {
		return filepath.Clean(out)
	}

	for dir := filepath.Clean(wd); ; {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}

		dir = parent
	}
}

func gitToplevel(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}
