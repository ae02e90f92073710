// Package command implements reversible edits and the undo/redo history.
//
// Every edit to a template goes through a [Command]: adding or removing an
// element, changing one property by name, a table edit, or a [Composite]
// that groups several of these into a single undo step. A [History] executes
// commands and keeps two stacks, one of applied commands and one of undone
// commands:
//
//	h := command.NewHistory(command.WithNotifier(n))
//	_ = h.Execute(command.ChangeProperty(el, "Opacity", 1.0, 0.5))
//	_ = h.Undo()
//	_ = h.Redo()
//
// Executing a command clears the redo stack. A command whose Do fails is
// never recorded and leaves the document untouched; composites roll back the
// sub-commands they already applied.
//
// Undo replays state captured when the command was applied. It can only fail
// when the document was changed behind the history's back, which surfaces as
// a COMMAND_REPLAY error.
package command
