package dispatch

import (
	"context"

	"github.com/thenoetrevino/studio/internal/projection"
)

// MoveTask puts a card in another column. When the board shows both the card and the
// target column the card moves locally first and the status is written afterwards.
// Moving a card to the column it is already in does nothing. When the board cannot
// place the move (not loaded, unknown column or card) the write goes first and the
// board reloads.
func (d *Dispatcher) MoveTask(ctx context.Context, board BoardView, taskID, statusID int) error {
	const op = "move task"

	var moved bool
	var placeErr error
	applied := mutate(board, func(b *projection.Board) {
		moved, placeErr = b.MoveTask(taskID, statusID)
	})

	if applied && placeErr == nil && !moved {
		return nil
	}

	if _, err := d.gw.MoveWorkItem(ctx, taskID, statusID); err != nil {
		return d.failed(op, err)
	}
	if !applied || placeErr != nil {
		if board != nil {
			board.Reload(ctx)
		}
	}
	return nil
}

// ReorderTask moves a card within its column. The order is local to the board and
// is not written.
func (d *Dispatcher) ReorderTask(board BoardView, taskID, index int) error {
	var err error
	if !mutate(board, func(b *projection.Board) { err = b.Reorder(taskID, index) }) {
		return ErrNotLoaded
	}
	return err
}
