package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/geo"
	"github.com/dmitrijs2005/buildhub/internal/client/guard"
)

// searchWait bounds how long "locate search" waits past the debounce.
var searchWait = 10 * time.Second

func (a *App) ensurePicker() *geo.Picker {
	if a.picker == nil {
		a.picker = geo.NewPicker(a.geocoder, nil,
			geo.WithDebounce(a.config.SearchDebounce),
			geo.WithPickerLogger(a.log),
			geo.OnResults(func(p []geo.Place) {
				select {
				case a.found <- p:
				default:
				}
			}),
		)
	}
	return a.picker
}

func (a *App) pickerNotice() {
	if s := a.picker.State(); s.LastError != "" {
		a.println("Error:", s.LastError)
		a.picker.ClearError()
	}
}

func (a *App) printPlaces(places []geo.Place) {
	if len(places) == 0 {
		a.println("No matches.")
		return
	}
	for i, p := range places {
		a.printf("%2d. %s (%s)\n", i+1, p.DisplayName, formatPoint(p.Lat, p.Lng))
	}
}

// locate drives the location picker used to fill a vendor address.
func (a *App) locate(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathVendors) {
		return nil
	}
	p := a.ensurePicker()

	switch sub {
	case "search":
		query := strings.Join(args, " ")
		select {
		case <-a.found:
		default:
		}
		p.SetQuery(ctx, query)
		if strings.TrimSpace(query) == "" {
			a.println("Search cleared.")
			return nil
		}
		return a.awaitResults(ctx)
	case "results":
		a.printPlaces(p.State().Results)
		return nil
	case "select":
		n, err := strconv.Atoi(strings.Join(args, ""))
		if err != nil {
			return usageError("locate select <n>")
		}
		place, ok := p.SelectResult(n - 1)
		if !ok {
			a.println("No such result.")
			return nil
		}
		a.printf("Selected %s\n", place.DisplayName)
		return nil
	case "pick":
		nums, ok := parseFloats(args)
		if !ok || len(nums) != 2 {
			return usageError("locate pick <lat> <lng>")
		}
		p.Pick(geo.Point{Lat: nums[0], Lng: nums[1]})
		a.printf("Selected %s\n", formatPoint(nums[0], nums[1]))
		return nil
	case "here":
		err := p.UseCurrentLocation(ctx)
		a.pickerNotice()
		return err
	case "confirm":
		addr, err := p.Confirm(ctx)
		if geo.IsNoPosition(err) {
			a.println("Pick a point first: 'locate pick <lat> <lng>' or 'locate search <address>'.")
			return err
		}
		if err != nil {
			return err
		}
		a.located = &addr
		a.printf("Location %s\n", formatPoint(addr.Latitude, addr.Longitude))
		if addr.Address != "" {
			a.printf("%s\n%s, %s %s\n", addr.Address, addr.City, addr.State, addr.Pincode)
		}
		a.println("It will be offered on the next 'vendors add' or 'vendors edit'.")
		return nil
	case "clear":
		a.located = nil
		p.SetQuery(ctx, "")
		return nil
	}
	return usageError("locate search <text>|results|select <n>|pick <lat> <lng>|here|confirm|clear")
}

var errSearchTimeout = errors.New("location search timed out")

func (a *App) awaitResults(ctx context.Context) error {
	deadline := time.NewTimer(a.config.SearchDebounce + searchWait)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case places := <-a.found:
			a.printPlaces(places)
			return nil
		case <-tick.C:
			if s := a.picker.State(); s.LastError != "" {
				a.pickerNotice()
				return errors.New(s.LastError)
			}
		case <-deadline.C:
			a.println("Error:", errSearchTimeout)
			return errSearchTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
