package driver

import (
	"context"
	"errors"
	"math"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"sigtype/internal/diag"
	"sigtype/internal/lexer"
	"sigtype/internal/parser"
	"sigtype/internal/source"
	"sigtype/internal/trace"
)

// FileResult содержит результат сканирования одного файла
type FileResult struct {
	Path       string
	FileID     source.FileID
	Loaded     bool // false: файл не прочитан, в Bag лежит IOLoadFileError
	Signatures []*parser.Signature
	Bag        *diag.Bag
	Cached     bool
}

// ScanResult is the outcome of ScanPaths. Files keep the order of the
// sorted, deduplicated input list.
type ScanResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Signatures returns the total number of parsed signatures.
func (r *ScanResult) Signatures() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Signatures)
	}
	return n
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *ScanResult) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag != nil && f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// ScanSource finds and parses every signature in file. Diagnostics go to
// bag; tokenizer and declaration failures become diagnostics too.
func ScanSource(file *source.File, opts Options, bag *diag.Bag) []*parser.Signature {
	popts := opts.Parser
	popts.Reporter = diag.BagReporter{Bag: bag}
	span := trace.Begin(opts.tracer(), trace.ScopeFile, file.Path, popts.TraceParent)
	popts.TraceParent = span.ID()

	text := file.Text()
	sigs := []*parser.Signature{}
	for _, c := range findCandidates(file, opts.defKeyword(), popts.Lexer) {
		sig, err := parser.ParseSignatureAt(text[c.start:c.end], c.start, popts)
		if err != nil {
			reportFailure(popts.Reporter, err)
			continue
		}
		sigs = append(sigs, sig)
	}

	// кандидаты могут перекрываться при продолжении строк
	bag.Dedup()
	span.WithExtra("signatures", strconv.Itoa(len(sigs))).End("")
	return sigs
}

// reportFailure turns a fatal parse error into a diagnostic.
func reportFailure(r diag.Reporter, err error) {
	var qe *lexer.UnterminatedQuoteError
	var ne *parser.NotASignatureError
	switch {
	case errors.As(err, &qe):
		diag.ReportError(r, qe.Code(), qe.Span, qe.Error()).Emit()
	case errors.As(err, &ne):
		diag.ReportWarning(r, ne.Code(), ne.Span, ne.Error()).Emit()
	default:
		diag.ReportError(r, diag.UnknownCode, source.EmptyAt(0), err.Error()).Emit()
	}
}

// ScanFile loads and scans a single file.
func ScanFile(ctx context.Context, path string, opts Options) (*ScanResult, error) {
	opts.Jobs = 1
	return scan(ctx, []string{path}, opts)
}

// ScanPaths scans files and directories in parallel. Directories are walked
// recursively and filtered by opts.Extensions and opts.Exclude; explicitly
// named files are always scanned.
func ScanPaths(ctx context.Context, paths []string, opts Options) (*ScanResult, error) {
	files, err := expandPaths(paths, opts.Extensions, opts.Exclude)
	if err != nil {
		return nil, err
	}
	return scan(ctx, files, opts)
}

func scan(ctx context.Context, files []string, opts Options) (*ScanResult, error) {
	span := trace.Begin(opts.tracer(), trace.ScopeDriver, "scan", opts.Parser.TraceParent)
	defer span.End("")
	opts.Parser.TraceParent = span.ID()

	// FileSet не потокобезопасен: загружаем всё заранее, в одном потоке
	fileSet := source.NewFileSet()
	res := &ScanResult{FileSet: fileSet, Files: make([]FileResult, len(files))}
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		res.Files[i] = FileResult{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		id, err := fileSet.Load(path)
		if err != nil {
			res.Files[i].Bag.Add(diag.NewError(diag.IOLoadFileError, source.EmptyAt(0), "failed to load file: "+err.Error()))
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		res.Files[i].FileID = id
		res.Files[i].Loaded = true
	}
	if len(files) == 0 {
		return res, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range res.Files {
		fr := &res.Files[i]
		if !fr.Loaded {
			continue
		}
		file := fileSet.Get(fr.FileID)
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			scanOne(file, fr, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	span.WithExtra("files", strconv.Itoa(len(files))).WithExtra("signatures", strconv.Itoa(res.Signatures()))
	return res, nil
}

// scanOne fills fr; each worker owns its FileResult, so no locking is needed.
// The cache keeps the complete parse diagnostics: fr.Bag applies its limit
// on replay, and cache I/O warnings are never stored.
func scanOne(file *source.File, fr *FileResult, opts Options) {
	started := time.Now()
	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})

	key := cacheKey(file.Hash, opts.Parser)
	entry, err := opts.Cache.Load(key)
	if err != nil {
		fr.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.EmptyAt(0), "cache read failed: "+err.Error()))
	}
	if entry != nil {
		fr.Signatures = entry.Signatures
		if fr.Signatures == nil {
			fr.Signatures = []*parser.Signature{}
		}
		for _, d := range entry.Diagnostics {
			fr.Bag.Add(d)
		}
		fr.Cached = true
		emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusCached,
			Elapsed: time.Since(started), Signatures: len(fr.Signatures)})
		return
	}

	// полный список, без лимита fr.Bag
	parsed := diag.NewBag(math.MaxInt)
	fr.Signatures = ScanSource(file, opts, parsed)
	for _, d := range parsed.Items() {
		fr.Bag.Add(d)
	}

	if opts.Cache != nil {
		entry := &CacheEntry{Signatures: fr.Signatures, Diagnostics: parsed.Items()}
		if err := opts.Cache.Store(key, entry); err != nil {
			fr.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.EmptyAt(0), "cache write failed: "+err.Error()))
		}
	}

	status := StatusDone
	if fr.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: status,
		Elapsed: time.Since(started), Signatures: len(fr.Signatures)})
}
