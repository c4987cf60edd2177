package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ovidot/internal/config"
	"ovidot/internal/implementations/email"
)

const usage = `usage: aws <command>

commands:
  create-template   create the password reset SES template
  delete-template   delete the password reset SES template
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	awsCfg, err := email.NewAWSConfig(context.Background(), cfg.AwsRegion, cfg.AwsAccessKey, cfg.AwsSecretKey)
	if err != nil {
		fail(err)
	}
	templates := email.NewSESTemplates(awsCfg)

	switch flag.Arg(0) {
	case "create-template":
		err = templates.CreatePasswordResetTemplate(context.Background(), cfg.AwsEmailPasswordResetTemplate)
	case "delete-template":
		err = templates.DeleteTemplate(context.Background(), cfg.AwsEmailPasswordResetTemplate)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
	fmt.Println("Success.")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
