package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/meshcode/internal/geojson"
	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

func parseFloatArg(name, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return f, nil
}

func parseLevelArg(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("level: %q is not an integer", raw)
	}
	return n, nil
}

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode LAT LON LEVEL",
		Short: "Encode a coordinate to a mesh code",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := parseFloatArg("lat", args[0])
			if err != nil {
				return err
			}
			lon, err := parseFloatArg("lon", args[1])
			if err != nil {
				return err
			}
			level, err := parseLevelArg(args[2])
			if err != nil {
				return err
			}

			code, err := meshcode.Encode(lat, lon, level)
			if err != nil {
				return err
			}
			a.log.Debug().Float64("lat", lat).Float64("lon", lon).Int("mesh_level", level).Str("code", code).Msg("encoded")
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		mode       string
		withBounds bool
		asGeoJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "decode CODE",
		Short: "Decode a mesh code to a coordinate",
		Long:  "Prints \"LAT LON\" of the south-west corner (or the center with --mode center), the cell extent with --bounds, or a GeoJSON Feature with --geojson.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()

			switch {
			case asGeoJSON:
				f, err := geojson.Feature(code)
				if err != nil {
					return err
				}
				body, err := json.Marshal(f)
				if err != nil {
					return fmt.Errorf("marshal feature: %w", err)
				}
				fmt.Fprintln(out, string(body))
			case withBounds:
				b, err := meshcode.BoundsOf(code)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%.6f %.6f %.6f %.6f\n", b.South, b.West, b.North, b.East)
			default:
				m, err := meshcode.ParseMode(mode)
				if err != nil {
					return err
				}
				pt, err := meshcode.DecodeAs(code, m)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%.6f %.6f\n", pt.Lat, pt.Lon)
			}
			a.log.Debug().Str("code", code).Msg("decoded")
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(meshcode.ModeSouthWest), "point to return: sw or center")
	cmd.Flags().BoolVar(&withBounds, "bounds", false, "print the cell extent as SOUTH WEST NORTH EAST")
	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "print the cell as a GeoJSON Feature")
	cmd.MarkFlagsMutuallyExclusive("bounds", "geojson")
	return cmd
}

func (a *app) parentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parent CODE LEVEL",
		Short: "Print the ancestor of a code at a coarser level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevelArg(args[1])
			if err != nil {
				return err
			}
			p, err := meshcode.Parent(strings.TrimSpace(args[0]), level)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (a *app) childrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "children CODE",
		Short: "List the codes one level below CODE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kids, err := meshcode.Children(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range kids {
				fmt.Fprintln(out, k)
			}
			a.log.Debug().Str("code", args[0]).Int("count", len(kids)).Msg("children listed")
			return nil
		},
	}
}

func (a *app) cellsCmd() *cobra.Command {
	var (
		bbox  string
		level int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "cells",
		Short: "List the codes covering a bounding box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parts := strings.Split(bbox, ",")
			if len(parts) != 4 {
				return fmt.Errorf("bbox: want WEST,SOUTH,EAST,NORTH (got %q)", bbox)
			}
			var v [4]float64
			for i, name := range []string{"west", "south", "east", "north"} {
				f, err := parseFloatArg(name, parts[i])
				if err != nil {
					return err
				}
				v[i] = f
			}

			cells, err := meshcode.CellsInBBox(v[1], v[0], v[3], v[2], level, limit)
			if err != nil {
				return err
			}
			if len(cells) == 0 {
				a.log.Warn().Str("bbox", bbox).Msg("bbox does not overlap the mesh grid")
			}
			out := cmd.OutOrStdout()
			for _, c := range cells {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bbox, "bbox", "", "WEST,SOUTH,EAST,NORTH in degrees")
	cmd.Flags().IntVar(&level, "level", 3, "mesh level (1-6)")
	cmd.Flags().IntVar(&limit, "limit", 10000, "maximum number of cells (0 disables)")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}
