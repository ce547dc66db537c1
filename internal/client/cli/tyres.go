package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/tyrekeeper/internal/client/api"
)

// ErrSessionExpired is returned when the server rejects the stored token.
var ErrSessionExpired = errors.New("session expired, please login again")

func (a *App) readTyreInput() (api.TyreInput, error) {
	var in api.TyreInput
	var err error

	if in.Brand, err = getSimpleText(a.reader, "Brand", a.out); err != nil {
		return in, err
	}
	if in.Model, err = getSimpleText(a.reader, "Model", a.out); err != nil {
		return in, err
	}
	if in.Size, err = getSimpleText(a.reader, "Size (e.g. 225/45R17)", a.out); err != nil {
		return in, err
	}
	return in, nil
}

// Add prompts for a tyre and creates it.
func (a *App) Add(ctx context.Context) error {
	in, err := a.readTyreInput()
	if err != nil {
		return err
	}

	t, err := a.api.CreateTyre(ctx, in)
	if err != nil {
		return a.sessionCheck(err)
	}

	printlnFn(fmt.Sprintf("Added tyre #%d", t.ID))
	return nil
}

// List prints the user's tyres as a table.
func (a *App) List(ctx context.Context) error {
	tyres, err := a.api.ListTyres(ctx)
	if err != nil {
		return a.sessionCheck(err)
	}

	if len(tyres) == 0 {
		printlnFn("No tyres yet")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBRAND\tMODEL\tSIZE")
	for _, t := range tyres {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Brand, t.Model, t.Size)
	}
	return w.Flush()
}

// Update prompts for new values of tyre id.
func (a *App) Update(ctx context.Context, id int64) error {
	in, err := a.readTyreInput()
	if err != nil {
		return err
	}

	if _, err := a.api.UpdateTyre(ctx, id, in); err != nil {
		return a.sessionCheck(err)
	}

	printlnFn(fmt.Sprintf("Updated tyre #%d", id))
	return nil
}

// Delete removes tyre id.
func (a *App) Delete(ctx context.Context, id int64) error {
	if err := a.api.DeleteTyre(ctx, id); err != nil {
		return a.sessionCheck(err)
	}

	printlnFn(fmt.Sprintf("Deleted tyre #%d", id))
	return nil
}

// sessionCheck drops the local session when the token was rejected.
func (a *App) sessionCheck(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.api.Logout()
		a.userName = ""
		return ErrSessionExpired
	}
	return err
}
