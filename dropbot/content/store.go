package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"

	"github.com/dropcards/dropbot/dropbot/game"
)

const (
	itemsFile      = "items.json"
	craftablesFile = "craftable_characters.json"
	rosterFile     = "characters.json"

	artURLCacheSize = 2048
)

// StoreConfig points the store at an S3-compatible bucket. When Bucket is
// empty the store reads from LocalDir only.
type StoreConfig struct {
	Key      string
	Secret   string
	Region   string
	Bucket   string
	Root     string
	LocalDir string
}

// Store resolves the static content tables and card art locations. Tables
// come from the bucket when configured, falling back to the local directory.
type Store struct {
	client   *s3.Client
	bucket   string
	region   string
	root     string
	localDir string
	artURLs  *lru.Cache
}

func NewStore(cfg StoreConfig) (*Store, error) {
	cache, err := lru.New(artURLCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Store{
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		root:     strings.Trim(cfg.Root, "/"),
		localDir: cfg.LocalDir,
		artURLs:  cache,
	}
	if cfg.Bucket == "" {
		return s, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}
	s.client = s3.NewFromConfig(awsCfg)
	return s, nil
}

// LoadTables fetches and validates the three content tables, fetching
// concurrently when reading from the bucket.
func (s *Store) LoadTables(ctx context.Context) (*Tables, error) {
	var itemsJSON, craftablesJSON, rosterJSON []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		itemsJSON, err = s.fetch(gctx, itemsFile)
		return err
	})
	g.Go(func() (err error) {
		craftablesJSON, err = s.fetch(gctx, craftablesFile)
		return err
	})
	g.Go(func() (err error) {
		rosterJSON, err = s.fetch(gctx, rosterFile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables, err := Load(itemsJSON, craftablesJSON, rosterJSON)
	if err != nil {
		return nil, err
	}
	slog.Info("Content tables loaded",
		slog.String("type", "sys"),
		slog.Int("items", len(tables.itemOrder)),
		slog.Int("craftables", len(tables.craftables)),
		slog.Int("characters", len(tables.roster.Names())))
	return tables, nil
}

func (s *Store) fetch(ctx context.Context, name string) ([]byte, error) {
	if s.client != nil {
		key := name
		if s.root != "" {
			key = s.root + "/" + name
		}
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: &s.bucket,
			Key:    &key,
		})
		if err == nil {
			defer out.Body.Close()
			return io.ReadAll(out.Body)
		}
		slog.Warn("Falling back to local content table",
			slog.String("type", "sys"),
			slog.String("table", name),
			slog.Any("error", err))
	}
	if s.localDir == "" {
		return nil, fmt.Errorf("content table %s unavailable: no bucket and no local dir", name)
	}
	return os.ReadFile(filepath.Join(s.localDir, name))
}

// CardArtURL builds the public URL of a card face. URLs are cached; they are
// pure string work but computed per rendered card in hot paths.
func (s *Store) CardArtURL(rarity game.Rarity, character string) string {
	cacheKey := string(rarity) + "/" + character
	if v, ok := s.artURLs.Get(cacheKey); ok {
		return v.(string)
	}
	name := strings.ToLower(strings.ReplaceAll(character, " ", "_"))
	var url string
	if s.bucket != "" {
		url = fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com/%s/cards/%s/%s.png",
			s.bucket, s.region, s.root, rarity, name)
	} else {
		url = fmt.Sprintf("attachment://%s_%s.png", rarity, name)
	}
	s.artURLs.Add(cacheKey, url)
	return url
}
