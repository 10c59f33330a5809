package models

import "errors"

// Custom errors
var (
	ErrUnknownMarket  = errors.New("unknown market")
	ErrLeagueRequired = errors.New("league is required")
	ErrTeamsRequired  = errors.New("home and away teams are required")
	ErrSameTeams      = errors.New("home and away teams must differ")
)
