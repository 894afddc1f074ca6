package main

import (
	"context"
)

func (cli *commandLine) repairRanks(courseID string) error {
	ctx := context.Background()
	roster, err := cli.usrSvc.Roster(ctx, courseID)
	if err != nil {
		return err
	}
	return cli.fbSvc.RepairRankResponses(ctx, courseID, roster)
}
