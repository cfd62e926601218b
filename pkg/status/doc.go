/*
Package status writes expanded outputs and tracks what changed.

	            +-------------+
	            |   Status    |
	            |  (Manager)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Writes outputs atomically (temp file + rename)
- Classifies each output as new, modified or unchanged by content
- Counts changed diff segments when a text output is rewritten
- Reports progress across a batch of templates

⚡ Modes:
- Dry run classifies outputs without writing
- Backup keeps a .bak copy of any file that is overwritten

🔍 Example:

	mgr := status.New("out", zerolog.Ctx(ctx), status.WithBackup(true))

	mgr.StartOperation(ctx, len(templates))
	info, err := mgr.WriteOutput(ctx, "plantilla_localidades.csv", data)
	mgr.Advance(ctx)
	mgr.FinishOperation(ctx)
*/
package status
