package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
	"github.com/balasutharsan1247/student-fitness-app/internal/service"
)

var recalculateLevelsCmd = &cobra.Command{
	Use:   "recalculate-levels",
	Short: "Re-derive every user's level from their points",
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, err := openStorage(cmd.Context())
		if err != nil {
			return err
		}
		defer repos.Close()

		accounts := service.NewAccountService(repos.Users, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL), logger)
		fixed, err := accounts.RecalculateAllLevels(cmd.Context())
		if err != nil {
			color.Red("Recalculation stopped after %d fixes: %v", fixed, err)
			return err
		}
		if fixed == 0 {
			color.Green("All levels already match their points.")
			return nil
		}
		color.Yellow("Fixed %d user level(s).", fixed)
		return nil
	},
}
