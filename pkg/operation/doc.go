/*
Package operation runs expansion jobs: it resolves inputs and the replacement
list, expands every template and hands the encoded result to the status
package for writing.

	+--------------+     +---------+     +--------+     +--------+
	| source/codec | --> | expand  | --> | codec  | --> | status |
	|   (decode)   |     | (rows)  |     |(encode)|     | (write)|
	+--------------+     +---------+     +--------+     +--------+

🔄 Flow:
 1. ResolveReplacements loads a built-in list, a list file or inline values
 2. ResolveInputs expands local globs with doublestar; remote uris pass through
 3. Glob matches keep their folder below the pattern base; two inputs that
    would write the same output fail the job before anything is written
 4. Each input becomes a file operation run by OperationRunner
 5. Outputs are named <base><suffix><ext> and written through status.Manager
 6. Every output is reported through the console logger in pkg/log

⚡ Concurrency:
The expander itself is single-threaded. With Config.Async the runner fans
input files out over an errgroup; a failing input is reported and does not
stop the others.

🔍 Example:

	op, err := operation.NewExpandOperation(operation.Options{
		Config:    cfg,
		StatusMgr: status.New(cfg.Output.Dir, logger),
	})
	if err != nil {
		return err
	}
	err = op.Execute(ctx)
*/
package operation
