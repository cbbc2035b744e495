// Package callback encodes and decodes inline keyboard callback data of the
// form "<domain>:<action>[:<arg>]". Only known combinations decode.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown callback command")
	ErrBadArgument    = errors.New("bad callback argument")
)

type Domain string

const (
	Books   Domain = "books"
	Genres  Domain = "genres"
	Poll    Domain = "poll"
	Chats   Domain = "chats"
	History Domain = "history"
	Users   Domain = "users"
)

// Actions and fixed arguments.
const (
	ActionClear   = "clear"
	ActionChoose  = "choose"
	ActionReset   = "reset"
	ActionBook    = "book"
	ActionGenre   = "genre"
	ActionSelect  = "select"
	ActionYear    = "year"
	ActionFilter  = "filter"
	ActionUser    = "user"
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionBack    = "back"

	ArgConfirm = "confirm"
	ArgCancel  = "cancel"
	ArgPrivate = "private"
	ArgAll     = "all"
)

type argKind int

const (
	argNone argKind = iota
	argConfirmCancel
	argInt
	argPrivateOrInt
	argAllOrPositive
)

type route struct {
	domain Domain
	action string
}

var routes = map[route]argKind{
	{Books, ActionClear}:   argConfirmCancel,
	{Books, ActionChoose}:  argConfirmCancel,
	{Genres, ActionReset}:  argConfirmCancel,
	{Poll, ActionBook}:     argConfirmCancel,
	{Poll, ActionGenre}:    argConfirmCancel,
	{Chats, ActionSelect}:  argPrivateOrInt,
	{History, ActionYear}:  argInt,
	{Users, ActionFilter}:  argAllOrPositive,
	{Users, ActionUser}:    argInt,
	{Users, ActionConfirm}: argInt,
	{Users, ActionCancel}:  argNone,
	{Users, ActionBack}:    argNone,
	{Users, ActionReset}:   argConfirmCancel,
}

// Command is a decoded callback.
type Command struct {
	Domain Domain
	Action string
	Arg    string
}

func New(domain Domain, action string, arg string) Command {
	return Command{Domain: domain, Action: action, Arg: arg}
}

func WithID(domain Domain, action string, id int64) Command {
	return New(domain, action, strconv.FormatInt(id, 10))
}

func (c Command) String() string {
	if c.Arg == "" {
		return string(c.Domain) + ":" + c.Action
	}
	return string(c.Domain) + ":" + c.Action + ":" + c.Arg
}

// Confirmed is true for the confirm branch of a confirm/cancel command.
func (c Command) Confirmed() bool {
	return c.Arg == ArgConfirm
}

// ID returns the numeric argument. Decode has already validated it for
// routes that carry one.
func (c Command) ID() int64 {
	id, _ := strconv.ParseInt(c.Arg, 10, 64)
	return id
}

// Decode parses data and rejects anything outside the route table.
func Decode(data string) (Command, error) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, data)
	}
	cmd := Command{Domain: Domain(parts[0]), Action: parts[1]}
	if len(parts) == 3 {
		cmd.Arg = parts[2]
	}

	kind, ok := routes[route{cmd.Domain, cmd.Action}]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, data)
	}
	if err := validateArg(kind, cmd.Arg); err != nil {
		return Command{}, fmt.Errorf("%w: %q", err, data)
	}
	return cmd, nil
}

func validateArg(kind argKind, arg string) error {
	switch kind {
	case argNone:
		if arg != "" {
			return ErrBadArgument
		}
	case argConfirmCancel:
		if arg != ArgConfirm && arg != ArgCancel {
			return ErrBadArgument
		}
	case argInt:
		if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
			return ErrBadArgument
		}
	case argPrivateOrInt:
		if arg == ArgPrivate {
			return nil
		}
		if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
			return ErrBadArgument
		}
	case argAllOrPositive:
		if arg == ArgAll {
			return nil
		}
		if n, err := strconv.Atoi(arg); err != nil || n <= 0 {
			return ErrBadArgument
		}
	}
	return nil
}
