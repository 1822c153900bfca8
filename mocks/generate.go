package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/jwtly10/tradesim/internal/strategy Strategy
