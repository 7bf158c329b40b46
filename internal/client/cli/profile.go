package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoToken = errors.New("no token: log in and pass it with -t")

func (a *App) profile(ctx context.Context, args []string) error {
	if a.config.Token == "" {
		return errNoToken
	}

	if len(args) == 0 || args[0] == "show" {
		u, err := a.client.Profile(ctx, a.config.Token)
		if err != nil {
			return err
		}
		return a.printJSON(u)
	}

	switch args[0] {
	case "set":
		fields, err := parseFields(args[1:])
		if err != nil {
			return err
		}
		u, err := a.client.UpdateProfile(ctx, a.config.Token, fields)
		if err != nil {
			return err
		}
		return a.printJSON(u)
	case "delete":
		answer, err := getSimpleText(a.reader, "Type 'yes' to delete the account", a.out)
		if err != nil {
			return err
		}
		if answer != "yes" {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
		if err := a.client.DeleteProfile(ctx, a.config.Token); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Account deleted")
		return nil
	}
	return fmt.Errorf("%w: unknown profile command %q", errUsage, args[0])
}

// parseFields turns key=value pairs into a profile update body.
// shipSpecialization takes a comma separated list and currentVessel.name,
// currentVessel.imo and currentVessel.type address the nested vessel.
func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: profile set needs key=value pairs", errUsage)
	}

	fields := map[string]any{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", errUsage, p)
		}

		switch {
		case key == "shipSpecialization":
			items := []string{}
			for _, s := range strings.Split(value, ",") {
				if s = strings.TrimSpace(s); s != "" {
					items = append(items, s)
				}
			}
			fields[key] = items
		case strings.HasPrefix(key, "currentVessel."):
			vessel, _ := fields["currentVessel"].(map[string]any)
			if vessel == nil {
				vessel = map[string]any{}
				fields["currentVessel"] = vessel
			}
			vessel[strings.TrimPrefix(key, "currentVessel.")] = value
		default:
			fields[key] = value
		}
	}
	return fields, nil
}

func (a *App) inspections(ctx context.Context) error {
	list, err := a.client.Inspections(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No inspections")
		return nil
	}
	for _, i := range list {
		fmt.Fprintf(a.out, "%s  %-12s  %-24s  %-20s  %d images\n",
			i.InspectionDate.Format("2006-01-02"), i.Status, i.ShipName, i.PortName, len(i.ShipImages))
	}
	return nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
