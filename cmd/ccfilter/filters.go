package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/strongdm/ccfilter/internal/filter"
	"github.com/strongdm/ccfilter/internal/lexer"
	"github.com/strongdm/ccfilter/internal/rewrite"
	"github.com/strongdm/ccfilter/internal/trigraph"
	"github.com/strongdm/ccfilter/internal/version"
)

func newConvertCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [file...]",
		Short: "Rewrite // comments as /* */ comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			p := rewrite.Convert{}
			return g.run(cmd, cfg, p.Name(), filter.Rewrite(p, nil), args, nil)
		},
	}
}

func newStripCmd(g *globalFlags) *cobra.Command {
	var (
		keepComments bool
		preserve     bool
		replace      string
	)
	cmd := &cobra.Command{
		Use:   "strip [file...]",
		Short: "Remove comments, or with -c remove everything but comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("replace") {
				cfg.Strip.Replacement = replace
			}
			if cmd.Flags().Changed("preserve-newlines") {
				cfg.Strip.PreserveNewlines = preserve
			}
			opts, err := cfg.PolicyOptions()
			if err != nil {
				return err
			}
			name := "strip-comments"
			if keepComments {
				name = "strip-code"
			}
			p, err := rewrite.ByName(name, opts)
			if err != nil {
				return err
			}
			return g.run(cmd, cfg, p.Name(), filter.Rewrite(p, nil), args, nil)
		},
	}
	cmd.Flags().BoolVarP(&keepComments, "keep-comments", "c", false, "Keep comments and drop code")
	cmd.Flags().BoolVarP(&preserve, "preserve-newlines", "n", false, "Keep the newlines of removed regions")
	cmd.Flags().StringVar(&replace, "replace", "space", "What replaces a removed block comment (space|newline|none)")
	return cmd
}

func newStringsCmd(g *globalFlags) *cobra.Command {
	var skipComments bool
	cmd := &cobra.Command{
		Use:   "strings [file...]",
		Short: "Print the contents of string literals, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("skip-comments") {
				cfg.Strings.SkipComments = skipComments
			}
			p := rewrite.Strings{SkipComments: cfg.Strings.SkipComments}
			return g.run(cmd, cfg, p.Name(), filter.Rewrite(p, nil), args, nil)
		},
	}
	cmd.Flags().BoolVar(&skipComments, "skip-comments", false, "Ignore quotes that appear inside comments")
	return cmd
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	var (
		dumpTable bool
		echo      bool
	)
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Exit non-zero if any input ends inside a literal or block comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dumpTable {
				for _, gr := range []*lexer.Grammar{lexer.Full, lexer.Literals} {
					if err := gr.WriteTable(cmd.OutOrStdout()); err != nil {
						return err
					}
				}
				return nil
			}
			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			out := io.Discard
			if echo {
				out = cmd.OutOrStdout()
			}
			p := rewrite.Passthrough{}
			return g.run(cmd, cfg, p.Name(), filter.Rewrite(p, nil), args, out)
		},
	}
	cmd.Flags().BoolVar(&dumpTable, "dump-table", false, "Print the transition tables and exit")
	cmd.Flags().BoolVar(&echo, "echo", false, "Copy the inputs to stdout while checking")
	return cmd
}

func newTrigraphCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigraph",
		Short: "Convert between trigraph sequences and the characters they stand for",
	}
	for _, c := range []struct {
		use, short string
		fn         func(io.Reader, io.Writer) error
	}{
		{"encode", "Replace characters such as [ and # by their trigraphs", trigraph.Encode},
		{"decode", "Replace trigraphs such as ??( and ??= by their characters", trigraph.Decode},
	} {
		name := "trigraph-" + c.use
		fn := c.fn
		cmd.AddCommand(&cobra.Command{
			Use:   c.use + " [file...]",
			Short: c.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.settings(cmd)
				if err != nil {
					return err
				}
				return g.run(cmd, cfg, name, filter.Stream(fn), args, nil)
			},
		})
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ccfilter %s\n", version.Version)
		},
	}
}
