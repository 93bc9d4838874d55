package cmd

import (
	"flag"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers a shell completion request for the program name and exits.
// It returns immediately when the program was not invoked for completion.
//
// Install with COMP_INSTALL=1 folio.
func Complete(name string) { completion().Complete(name) }

// completion describes the subcommands and flags of the application.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	var names predict.Set
	for _, e := range commands {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)
		root.Sub[e.cmd.Name()] = &complete.Command{Flags: flagPredictors(fs)}
		names = append(names, e.cmd.Name())
	}
	if topics, err := docs.Names(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, docs.Readme))
	}
	root.Sub["help"] = &complete.Command{Args: names}
	root.Sub["flags"] = &complete.Command{}
	root.Sub["commands"] = &complete.Command{}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	out := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) { out[f.Name] = predictor(f) })
	return out
}

func predictor(f *flag.Flag) complete.Predictor {
	switch f.Name {
	case "platform":
		var names predict.Set
		for _, p := range portfolio.KnownPlatforms {
			names = append(names, p.Name)
		}
		return names
	case "type":
		var types predict.Set
		for _, t := range portfolio.AssetTypes {
			types = append(types, string(t))
		}
		return types
	case "freq":
		return predict.Set{string(portfolio.Monthly), string(portfolio.Quarterly), string(portfolio.SemiAnnually), string(portfolio.Annually)}
	case "store":
		return predict.Set{"dir", "sqlite", "memory"}
	case "data-dir":
		return predict.Dirs("*")
	case "log-level":
		return predict.Set{"debug", "info", "warn", "error"}
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	return predict.Something
}
