package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/patchgap/internal/app"
)

var (
	Version, Branch, Commit, BuildDate string
)

var errDifferent = errm.New("patches are different")

var (
	configPath = kingpin.Flag("config", "path to config file").Short('c').String()
	debug      = kingpin.Flag("debug", "enable debug logging").Bool()

	listCmd  = kingpin.Command("list", "list commits of every patch directory")
	listRoot = listCmd.Arg("root", "root of patch directories").Required().ExistingDir()

	gapCmd    = kingpin.Command("gap", "find source patches missing from target")
	gapSource = gapCmd.Arg("source", "root of source patch directories").Required().ExistingDir()
	gapTarget = gapCmd.Arg("target", "root of target patch directories").Required().ExistingDir()
	gapRobust = gapCmd.Flag("robust", "ignore cosmetic differences").Bool()

	sameCmd    = kingpin.Command("same", "compare two patch files")
	samePatchA = sameCmd.Arg("a", "first patch").Required().ExistingFile()
	samePatchB = sameCmd.Arg("b", "second patch").Required().ExistingFile()
	sameRobust = sameCmd.Flag("robust", "ignore cosmetic differences").Bool()

	sameCommitCmd    = kingpin.Command("same-commit", "compare two commits")
	sameCommitRepoA  = sameCommitCmd.Arg("repo-a", "first repository").Required().ExistingDir()
	sameCommitIDA    = sameCommitCmd.Arg("id-a", "first commit").Required().String()
	sameCommitRepoB  = sameCommitCmd.Arg("repo-b", "second repository").Required().ExistingDir()
	sameCommitIDB    = sameCommitCmd.Arg("id-b", "second commit").Required().String()
	sameCommitRobust = sameCommitCmd.Flag("robust", "ignore cosmetic differences").Bool()

	numstatCmd      = kingpin.Command("numstat", "sum added and removed lines")
	numstatRepo     = numstatCmd.Arg("repo", "repository").Required().ExistingDir()
	numstatRevs     = numstatCmd.Arg("revs", "revisions passed to git log").Strings()
	numstatByAuthor = numstatCmd.Flag("by-author", "group by author instead of file").Bool()

	exportCmd  = kingpin.Command("export", "write commits as numbered patch files")
	exportRepo = exportCmd.Arg("repo", "repository").Required().ExistingDir()
	exportDir  = exportCmd.Arg("outdir", "output directory").Required().String()
	exportFrom = exportCmd.Flag("from", "exclude commits reachable from this revision").String()
	exportTo   = exportCmd.Flag("to", "last exported revision").Default("HEAD").String()
)

func main() {
	kingpin.Version(lang.Check(Version, "dev"))
	command := kingpin.Parse()

	var err error
	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()), contem.Exit(&err))
	defer ctx.Shutdown()

	err = run(ctx, command)
	if err != nil && !errm.Is(err, errDifferent) {
		logze.DefaultPtr().Error("cannot run", "error", err)
	}
}

func run(ctx contem.Context, command string) error {
	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}
	logze.Init(logze.C().WithConsole().WithLevel(lang.If(*debug || cfg.Log.Debug, logze.LevelDebug, logze.LevelInfo)))

	patchGap, err := app.New(ctx, cfg)
	if err != nil {
		return erro.Wrap(err, "new app")
	}

	switch command {
	case listCmd.FullCommand():
		_, err = patchGap.ListPatches(ctx, *listRoot)

	case gapCmd.FullCommand():
		_, err = patchGap.FindGaps(ctx, *gapSource, *gapTarget, *gapRobust)

	case sameCmd.FullCommand():
		var same bool
		same, err = patchGap.ComparePatches(ctx, *samePatchA, *samePatchB, *sameRobust)
		if err == nil && !same {
			return errDifferent
		}

	case sameCommitCmd.FullCommand():
		var same bool
		same, err = patchGap.CompareCommits(ctx, *sameCommitRepoA, *sameCommitIDA, *sameCommitRepoB, *sameCommitIDB, *sameCommitRobust)
		if err == nil && !same {
			return errDifferent
		}

	case numstatCmd.FullCommand():
		_, err = patchGap.NumStat(ctx, *numstatRepo, *numstatByAuthor, *numstatRevs...)

	case exportCmd.FullCommand():
		_, err = patchGap.Export(ctx, *exportRepo, *exportFrom, *exportTo, *exportDir)
	}
	if err != nil {
		return erro.Wrap(err, command)
	}

	return nil
}
