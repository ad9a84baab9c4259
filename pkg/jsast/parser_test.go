package jsast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
)

func collect(t *testing.T, filename, src string) []jsast.Statement {
	t.Helper()

	tree, err := jsast.NewParser().Parse(context.Background(), filename, []byte(src))
	require.NoError(t, err)

	defer tree.Close()

	return tree.Collect()
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()

	tests := map[string]jsast.Language{
		"app/page.js":     jsast.JavaScript,
		"app/page.JSX":    jsast.JavaScript,
		"lib/index.mjs":   jsast.JavaScript,
		"lib/index.cjs":   jsast.JavaScript,
		"src/util.ts":     jsast.TypeScript,
		"src/util.mts":    jsast.TypeScript,
		"src/util.cts":    jsast.TypeScript,
		"app/layout.tsx":  jsast.TSX,
		"next-env.d.ts":   jsast.TypeScript,
		"eslint.config.m": "",
	}

	for filename, want := range tests {
		got, ok := jsast.LanguageFor(filename)
		assert.Equal(t, want != "", ok, filename)
		assert.Equal(t, want, got, filename)
	}
}

func TestDetectLanguage_UnknownExtension(t *testing.T) {
	t.Parallel()

	_, ok := jsast.DetectLanguage("README.md", []byte("# title\n"))
	assert.False(t, ok)
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := jsast.NewParser().Parse(context.Background(), "styles.css", []byte("a{}"))
	require.ErrorIs(t, err, jsast.ErrUnsupportedLanguage)
}

func TestStatements_ImportDeclarations(t *testing.T) {
	t.Parallel()

	src := `import x from "../utils/foo";
import { y } from './foo';
import "@/styles/globals.css";
import * as z from "react";
`

	stmts := collect(t, "page.js", src)
	require.Len(t, stmts, 4)

	want := []string{"../utils/foo", "./foo", "@/styles/globals.css", "react"}

	for i, stmt := range stmts {
		assert.Equal(t, jsast.KindImportDeclaration, stmt.Kind)
		require.NotNil(t, stmt.Source)
		assert.Equal(t, want[i], stmt.Source.Value)
	}

	first := stmts[0].Source.Span
	assert.Equal(t, 1, first.Start.Line)
	assert.Equal(t, 15, first.Start.Column)
	assert.Equal(t, 1, first.End.Line)
	assert.Equal(t, 29, first.End.Column)
}

func TestStatements_CallExpressions(t *testing.T) {
	t.Parallel()

	src := `const a = require("../../shared/bar");
const b = import("@/lib/dynamic");
const c = require(someVariable);
const d = require();
foo("../not-an-import");
const e = require(/* why */ "../commented");
`

	stmts := collect(t, "index.js", src)
	require.Len(t, stmts, 6)

	for _, stmt := range stmts {
		assert.Equal(t, jsast.KindCallExpression, stmt.Kind)
	}

	assert.Equal(t, jsast.CalleeRequire, stmts[0].Callee)
	require.NotNil(t, stmts[0].Source)
	assert.Equal(t, "../../shared/bar", stmts[0].Source.Value)

	assert.Equal(t, jsast.CalleeImport, stmts[1].Callee)
	require.NotNil(t, stmts[1].Source)
	assert.Equal(t, "@/lib/dynamic", stmts[1].Source.Value)

	assert.Equal(t, jsast.CalleeRequire, stmts[2].Callee)
	assert.Nil(t, stmts[2].Source)

	assert.Equal(t, jsast.CalleeRequire, stmts[3].Callee)
	assert.Nil(t, stmts[3].Source)

	assert.Equal(t, jsast.CalleeOther, stmts[4].Callee)
	require.NotNil(t, stmts[4].Source)

	assert.Equal(t, jsast.CalleeRequire, stmts[5].Callee)
	require.NotNil(t, stmts[5].Source)
	assert.Equal(t, "../commented", stmts[5].Source.Value)
}

func TestStatements_UTF16Columns(t *testing.T) {
	t.Parallel()

	// "é" is two bytes but one UTF-16 unit; "😀" is four bytes and two units.
	src := "const é = 1; /* 😀 */ require(\"../a\");\n"

	stmts := collect(t, "index.js", src)
	require.Len(t, stmts, 1)
	require.NotNil(t, stmts[0].Source)

	start := stmts[0].Source.Span.Start
	assert.Equal(t, 1, start.Line)
	assert.Equal(t, 31, start.Column)
	assert.Equal(t, 33, start.Offset)
	assert.Equal(t, 37, stmts[0].Source.Span.End.Column)
}

func TestUTF16Len(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, jsast.UTF16Len("abc"))
	assert.Equal(t, 1, jsast.UTF16Len("é"))
	assert.Equal(t, 2, jsast.UTF16Len("😀"))
	assert.Equal(t, 1, jsast.UTF16Len("\xff"))
}

func TestStatements_Parenthesized(t *testing.T) {
	t.Parallel()

	src := "require((\"../a\"));\n(require)(\"../b\");\nimport(((\"../c\")));\nrequire((\"x\", \"../d\"));\n"

	stmts := collect(t, "index.js", src)
	require.Len(t, stmts, 4)

	assert.Equal(t, jsast.CalleeRequire, stmts[0].Callee)
	require.NotNil(t, stmts[0].Source)
	assert.Equal(t, "../a", stmts[0].Source.Value)
	assert.Equal(t, 10, stmts[0].Source.Span.Start.Column)

	assert.Equal(t, jsast.CalleeRequire, stmts[1].Callee)
	require.NotNil(t, stmts[1].Source)
	assert.Equal(t, "../b", stmts[1].Source.Value)

	assert.Equal(t, jsast.CalleeImport, stmts[2].Callee)
	require.NotNil(t, stmts[2].Source)
	assert.Equal(t, "../c", stmts[2].Source.Value)

	// A sequence is not a literal even when its last element is.
	assert.Nil(t, stmts[3].Source)
}

func TestStatements_NonLiteralArguments(t *testing.T) {
	t.Parallel()

	src := "require(`../tpl`);\nrequire(\"../\" + name);\nimport(path);\n"

	stmts := collect(t, "index.js", src)
	require.Len(t, stmts, 3)

	for _, stmt := range stmts {
		assert.Nil(t, stmt.Source)
	}
}

func TestStatements_NestedOrder(t *testing.T) {
	t.Parallel()

	src := `wrap(require("../a"), () => import("../b"));`

	stmts := collect(t, "index.js", src)
	require.Len(t, stmts, 3)

	assert.Equal(t, jsast.CalleeOther, stmts[0].Callee)
	assert.Equal(t, "../a", stmts[1].Source.Value)
	assert.Equal(t, "../b", stmts[2].Source.Value)
}

func TestStatements_TypeScript(t *testing.T) {
	t.Parallel()

	src := `import type { Props } from "../types";
import type { Button } from "@/components/ui/button";
const cfg: Config = require("../config");
`

	stmts := collect(t, "component.ts", src)
	require.Len(t, stmts, 3)

	assert.Equal(t, jsast.KindImportDeclaration, stmts[0].Kind)
	assert.Equal(t, "../types", stmts[0].Source.Value)
	assert.Equal(t, "@/components/ui/button", stmts[1].Source.Value)
	assert.Equal(t, jsast.CalleeRequire, stmts[2].Callee)
	assert.Equal(t, "../config", stmts[2].Source.Value)
}

func TestStatements_TSX(t *testing.T) {
	t.Parallel()

	src := `import Image from "next/image";
import { Card } from "../components/card";

export default function Home() {
  return <Card><Image src="/next.svg" alt="logo" /></Card>;
}
`

	stmts := collect(t, "page.tsx", src)
	require.Len(t, stmts, 2)

	assert.Equal(t, "next/image", stmts[0].Source.Value)
	assert.Equal(t, "../components/card", stmts[1].Source.Value)
	assert.Equal(t, 2, stmts[1].Source.Span.Start.Line)
}

func TestTree_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	tree, err := jsast.NewParser().Parse(context.Background(), "a.js", []byte(`import "x";`))
	require.NoError(t, err)

	tree.Close()
	tree.Close()

	assert.Empty(t, tree.Collect())
	assert.Equal(t, jsast.JavaScript, tree.Language())
}
