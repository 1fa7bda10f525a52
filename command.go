package qe

import (
	"context"
	"fmt"
)

type CommandName string
type Command any

func CommandNameOf(command Command) CommandName {
	return CommandName(NameOf(command))
}

type CommandHandler[T any] interface {
	HandleCommand(ctx context.Context, cmd Command, entity Entity[T], publish EventPublisher) error
}

type CommandHandlerFunction[T any, C any] func(ctx context.Context, cmd C, entity Entity[T], publish EventPublisher) error

func (f CommandHandlerFunction[T, C]) HandleCommand(ctx context.Context, cmd Command, entity Entity[T], publish EventPublisher) error {
	command, ok := cmd.(C)
	if !ok {
		return UnexpectedCommand(cmd)
	}

	return f(ctx, command, entity, publish)
}

func UnexpectedCommand(command Command) error {
	return fmt.Errorf("unexpected command %s", CommandNameOf(command))
}
