package importer

import (
	"fmt"

	"github.com/VoxDroid/stovbot/internal/store"
	"github.com/VoxDroid/stovbot/internal/variable"
)

func copyCommands(src, dst *store.Repository, opts Options, sum *Summary) error {
	rows, err := src.ListCommands()
	if err != nil {
		return fmt.Errorf("list source commands: %w", err)
	}
	for _, row := range rows {
		if opts.Skip != nil && opts.Skip(row.Trigger) {
			sum.CommandsSkipped++
			continue
		}
		existing, err := dst.GetCommand(row.Trigger)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			c := row
			if _, err := dst.AddCommand(&c); err != nil {
				return fmt.Errorf("import %s: %w", row.Trigger, err)
			}
			sum.CommandsAdded++
		case opts.Overwrite:
			if err := dst.UpdateCommand(row.Trigger, row.Response, row.IsAlias); err != nil {
				return fmt.Errorf("import %s: %w", row.Trigger, err)
			}
			sum.CommandsReplaced++
		default:
			sum.CommandsSkipped++
		}
	}
	return nil
}

func copyVariables(src, dst *store.Repository, opts Options, sum *Summary) error {
	vars, err := src.ListVariables()
	if err != nil {
		return fmt.Errorf("list source variables: %w", err)
	}
	for _, v := range vars {
		existing, err := dst.GetVariable(v.Name)
		if err != nil {
			return err
		}
		if existing != nil && !opts.Overwrite {
			sum.VariablesSkipped++
			continue
		}
		if err := dst.SetVariable(variable.New(v.Name, v.Value)); err != nil {
			return fmt.Errorf("import variable %s: %w", v.Name, err)
		}
		if existing == nil {
			sum.VariablesAdded++
		} else {
			sum.VariablesReplaced++
		}
	}
	return nil
}
