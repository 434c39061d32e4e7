package main

import (
	"github.com/crucial707/district-digest/cmd/cli/news"
	"github.com/crucial707/district-digest/cmd/cli/report"
	"github.com/crucial707/district-digest/cmd/cli/root"
	"github.com/crucial707/district-digest/cmd/cli/system"
	"github.com/crucial707/district-digest/cmd/cli/users"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	rootCmd := root.GetRoot()
	system.InitSystem(rootCmd)
	users.InitUsers(rootCmd)
	news.InitNews(rootCmd)
	report.InitReport(rootCmd)

	// Execute the root Cobra command
	root.Execute()
}
