/*
Package cli provides helpers shared by the naviroute commands.

Output Formatting:

Commands that report structured results accept --output text|json:

	format, err := cli.ParseOutputFormat(flag)
	if err != nil {
		return err
	}
	return cli.Write(os.Stdout, format, result)

In text mode a value implementing fmt.Stringer is printed with String.

Errors:

ConfigError and CommandError carry enough context for a one-line message.
ExitCode maps them to the process exit status:

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
