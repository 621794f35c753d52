/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Engine-level rejections. These are reported to the offending client
// only, never broadcast, and never fatal to a session.
var (
	errAttemptsExhausted = errors.New("no guess attempts remaining")
	errMasterGuess       = errors.New("the game master cannot guess their own question")
	errNoQuestions       = errors.New("no questions have been added")
	errNotMaster         = errors.New("only the game master may do that")
	errSessionNotFound   = errors.New("game not found")
	errStaleRound        = errors.New("the question has already ended")
	errWrongState        = errors.New("not allowed in the current game state")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
