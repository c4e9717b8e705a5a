package cmd

import (
	"github.com/colsync/colsync/destinations"
	colsync "github.com/colsync/colsync/lib"

	"filippo.io/age"
	"github.com/sirupsen/logrus"
)

type optionsBuilder struct {
	Options     *colsync.Options
	Destination colsync.Destination
	Recipients  []age.Recipient
	Identities  []age.Identity
	Error       error
}

func newOptionsBuilder(options *colsync.Options, err error) *optionsBuilder {
	return &optionsBuilder{Options: options, Error: err}
}

func (o *optionsBuilder) WithDestination() *optionsBuilder {
	if o.Error == nil {
		o.Destination, o.Error = destinations.New(o.Options)
	}
	return o
}

func (o *optionsBuilder) WithRecipients() *optionsBuilder {
	if o.Error == nil {
		if o.Options.String["KeyFile"] == "" && o.Options.String["Key"] == "" {
			o.Recipients = nil
		} else {
			o.Recipients, o.Error = colsync.LoadRecipients(o.Options.String["KeyFile"], o.Options.String["Key"])
		}
	}
	return o
}

func (o *optionsBuilder) WithIdentities() *optionsBuilder {
	if o.Error == nil {
		if o.Options.String["KeyFile"] == "" && o.Options.String["Key"] == "" {
			o.Identities = nil
		} else {
			o.Identities, o.Error = colsync.LoadIdentities(o.Options.String["KeyFile"], o.Options.String["Key"])
		}
	}
	return o
}

func (o *optionsBuilder) FatalOnError() *optionsBuilder {
	if o.Error != nil {
		logrus.Fatal(o.Error)
	}
	return o
}
