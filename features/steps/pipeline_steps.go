//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	appdist "audio-bridge/application/distribution"
	appjob "audio-bridge/application/job"
	"audio-bridge/domain/distribution"
	"audio-bridge/domain/media"
	"audio-bridge/infrastructure/filesystem"
	"audio-bridge/infrastructure/gcs"
	"audio-bridge/infrastructure/ytdlp"

	"github.com/cucumber/godog"
	"google.golang.org/api/storage/v1"
)

type fakeMedia struct {
	id    string
	title string
}

// fakeEngine stands in for the yt-dlp binary behind ytdlp.CommandRunner.
// It writes the transcoded file where the real engine would.
type fakeEngine struct {
	mu            sync.Mutex
	media         map[string]fakeMedia
	failStderr    string
	skipTranscode bool
	runs          int
}

func (e *fakeEngine) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if len(args) == 1 && args[0] == "--version" {
		return []byte("2025.01.15\n"), nil
	}

	e.mu.Lock()
	e.runs++
	e.mu.Unlock()

	if e.failStderr != "" {
		return nil, &ytdlp.EngineError{Err: errors.New("exit status 1"), Stderr: e.failStderr}
	}

	url := args[len(args)-1]
	m, ok := e.media[url]
	if !ok {
		return nil, &ytdlp.EngineError{Err: errors.New("exit status 1"), Stderr: "ERROR: Unsupported URL: " + url}
	}

	var template string
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			template = args[i+1]
		}
	}
	reported := strings.NewReplacer("%(id)s", m.id, "%(ext)s", "webm").Replace(template)

	if !e.skipTranscode {
		if err := os.WriteFile(media.FinalPath(reported), []byte("ID3\x04fake-mp3-payload"), 0644); err != nil {
			return nil, err
		}
	}

	return json.Marshal(map[string]string{
		"id":        m.id,
		"title":     m.title,
		"ext":       "webm",
		"_filename": reported,
	})
}

func (e *fakeEngine) runCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}

// fakeObjects stands in for the Cloud Storage JSON API behind gcs.ObjectService
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string]int // "bucket/name" -> size
}

func (f *fakeObjects) InsertObject(ctx context.Context, bucket string, object *storage.Object, media io.Reader) (*storage.Object, error) {
	data, err := io.ReadAll(media)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.objects[bucket+"/"+object.Name] = len(data)
	f.mu.Unlock()

	return &storage.Object{
		Bucket:      bucket,
		Name:        object.Name,
		ContentType: object.ContentType,
		Size:        uint64(len(data)),
	}, nil
}

func (f *fakeObjects) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// pipelineContext holds test state shared by the HTTP and CLI scenarios
type pipelineContext struct {
	workDir string
	bucket  string
	mode    string
	engine  *fakeEngine
	objects *fakeObjects

	http httpState
	cli  cliState
}

// SharedPipelineContext is reset before each scenario via Before hook
var SharedPipelineContext *pipelineContext

func InitializePipelineScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		workDir, err := os.MkdirTemp("", "audio-bridge-features-*")
		if err != nil {
			return c, err
		}
		SharedPipelineContext = &pipelineContext{
			workDir: workDir,
			engine:  &fakeEngine{media: make(map[string]fakeMedia)},
			objects: &fakeObjects{objects: make(map[string]int)},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		p := SharedPipelineContext
		if p != nil {
			p.http.close()
			os.RemoveAll(p.workDir)
		}
		return c, nil
	})

	ctx.Step(`^the storage bucket "([^"]*)"$`, func(bucket string) error {
		SharedPipelineContext.bucket = bucket
		return nil
	})
	ctx.Step(`^the media "([^"]*)" has id "([^"]*)" and title "([^"]*)"$`, func(url, id, title string) error {
		SharedPipelineContext.engine.media[url] = fakeMedia{id: id, title: title}
		return nil
	})
	ctx.Step(`^the transcoder silently fails$`, func() error {
		SharedPipelineContext.engine.skipTranscode = true
		return nil
	})
	ctx.Step(`^the engine fails with "([^"]*)"$`, func(stderr string) error {
		SharedPipelineContext.engine.failStderr = stderr
		return nil
	})
	ctx.Step(`^the extraction engine should not have run$`, func() error {
		if n := SharedPipelineContext.engine.runCount(); n != 0 {
			return fmt.Errorf("expected no engine runs, got %d", n)
		}
		return nil
	})
	ctx.Step(`^the object "([^"]*)" should be stored$`, func(key string) error {
		p := SharedPipelineContext
		p.objects.mu.Lock()
		defer p.objects.mu.Unlock()
		if _, ok := p.objects.objects[p.bucket+"/"+key]; !ok {
			return fmt.Errorf("object %s not stored; have %v", key, p.objects.objects)
		}
		return nil
	})
	ctx.Step(`^no object should be stored$`, func() error {
		if n := SharedPipelineContext.objects.count(); n != 0 {
			return fmt.Errorf("expected no uploads, got %d", n)
		}
		return nil
	})
	ctx.Step(`^no temporary audio files should remain$`, noTemporaryAudioFilesShouldRemain)

	initializeHTTPSteps(ctx)
	initializeDownloadSteps(ctx)
}

func noTemporaryAudioFilesShouldRemain() error {
	root := SharedPipelineContext.workDir
	var leftovers []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			leftovers = append(leftovers, strings.TrimPrefix(path, root))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(leftovers) > 0 {
		return fmt.Errorf("temporary files remain: %v", leftovers)
	}
	return nil
}

// runner wires the production runner around the fake engine and object API
func (p *pipelineContext) runner() (*appjob.Runner, error) {
	extractor := ytdlp.NewExtractor(ytdlp.WithCommandRunner(p.engine))

	var store distribution.ObjectStore
	if p.bucket != "" {
		client, err := gcs.NewClient(context.Background(), "", gcs.WithObjectService(p.objects))
		if err != nil {
			return nil, err
		}
		store = client
	}

	uploader := appdist.NewUploadService(store, p.bucket, distribution.DefaultKeyPrefix)
	return appjob.NewRunner(extractor, uploader, filesystem.NewChecker(), p.workDir), nil
}
