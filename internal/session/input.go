package session

import (
	"fmt"
	"strings"

	"driveqa/internal/domain"
)

// InputKind tells Handle what the user asked for.
type InputKind int

const (
	// Select picks a numbered item of the current listing.
	Select InputKind = iota
	// Search lists files matching free text.
	Search
	// Question answers free text from the matching documents.
	Question
	// Command runs a navigation command.
	Command
)

func (k InputKind) String() string {
	switch k {
	case Select:
		return "select"
	case Search:
		return "search"
	case Question:
		return "question"
	case Command:
		return "command"
	}
	return fmt.Sprintf("InputKind(%d)", int(k))
}

// CommandName identifies a navigation command.
type CommandName string

const (
	CmdNextPage CommandName = "next"
	CmdPrevPage CommandName = "prev"
	CmdBack     CommandName = "back"
	CmdRefresh  CommandName = "refresh"
	CmdClear    CommandName = "clear"
)

// Input is one tagged user action.
type Input struct {
	Kind    InputKind
	Text    string // query or question text
	Number  domain.NumberPath
	Command CommandName
}

func SelectInput(n domain.NumberPath) Input { return Input{Kind: Select, Number: n} }
func SearchInput(q string) Input            { return Input{Kind: Search, Text: q} }
func QuestionInput(q string) Input          { return Input{Kind: Question, Text: q} }
func CommandInput(name CommandName) Input   { return Input{Kind: Command, Command: name} }

// ParseCommand maps a typed command word to its name.
func ParseCommand(s string) (CommandName, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "n":
		return CmdNextPage, true
	case "prev", "previous", "p":
		return CmdPrevPage, true
	case "back", "b", "..":
		return CmdBack, true
	case "refresh", "r":
		return CmdRefresh, true
	case "clear":
		return CmdClear, true
	}
	return "", false
}
