package main

import (
	"context"

	"github.com/autopr/autopr/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
