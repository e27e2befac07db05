package web

import "embed"

// StaticFS embeds the dashboard frontend (html/css/js).
//
//go:embed static/*
var StaticFS embed.FS
