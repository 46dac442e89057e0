package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func bindingsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Show or change the finger-count key bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.listBindings(cmd)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <label> <key> [text]",
		Short: "Bind a finger count to a key; an empty key disables it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.setBinding(cmd, args)
		},
	}

	cmd.AddCommand(setCmd)
	return cmd
}

func (c *cli) openStore() (*store.Store, error) {
	st, err := store.New(c.settings.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Bindings().SeedDefaults(action.DefaultTable()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func (c *cli) listBindings(cmd *cobra.Command) error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	table, err := st.Bindings().Table(action.DefaultTable())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINGERS\tKEY\tTEXT")
	for label, b := range table {
		key := b.Key
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", label, key, b.Text)
	}
	return w.Flush()
}

func (c *cli) setBinding(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || !gesture.Label(n).Valid() {
		return fmt.Errorf("label must be an integer from 0 to 5, got %q", args[0])
	}

	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	b := &store.Binding{Label: gesture.Label(n), Key: args[1]}
	if len(args) == 3 {
		b.Text = args[2]
	} else if cur, err := st.Bindings().Get(b.Label); err == nil {
		b.Text = cur.Text
	}

	if err := st.Bindings().Upsert(b); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d fingers -> %q (%s)\n", n, b.Key, b.Text)
	return nil
}
