package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/depcache"
	"github.com/unkn0wn-root/depcache/codec"
	depzap "github.com/unkn0wn-root/depcache/log/zap"
	"github.com/unkn0wn-root/depcache/provider/redis"
	"github.com/unkn0wn-root/depcache/tagstore"
)

var errNamespace = errors.New("--namespace is required")

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "depcachectl",
		Short:         "Inspect and invalidate tag-versioned cache entries in Redis",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("redis-addr", "localhost:6379", "redis address")
	pf.String("redis-password", "", "redis password")
	pf.Int("redis-db", 0, "redis database")
	pf.String("key-prefix", "", "prefix applied to every redis key")
	pf.String("namespace", "", "data namespace")
	pf.String("tag-namespace", "", "tag namespace (defaults to --namespace)")
	pf.String("tag-store", "provider", "where tag versions live: provider|redis")
	pf.Bool("verbose", false, "debug logging to stderr")
	_ = v.BindPFlags(pf)

	v.SetEnvPrefix("DEPCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newGetCmd(v),
		newSetCmd(v),
		newInvalidateCmd(v),
		newDeleteCmd(v),
		newInspectCmd(v),
	)
	return root
}

func loadConfig(v *viper.Viper) error {
	if f := v.GetString("config"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if v.GetString("namespace") == "" {
		return errNamespace
	}
	switch v.GetString("tag-store") {
	case "provider", "redis":
	default:
		return fmt.Errorf("unknown --tag-store %q", v.GetString("tag-store"))
	}
	return nil
}

// session bundles the cache and the resources it was built from.
type session struct {
	cache depcache.Cache[json.RawMessage]
	rdb   *goredis.Client
	log   *zap.Logger
}

func (s *session) Close(ctx context.Context) {
	_ = s.cache.Close(ctx)
	_ = s.rdb.Close()
	_ = s.log.Sync()
}

func openSession(v *viper.Viper) (*session, error) {
	log := zap.NewNop()
	if v.GetBool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		log = l
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     v.GetString("redis-addr"),
		Password: v.GetString("redis-password"),
		DB:       v.GetInt("redis-db"),
	})

	p, err := redis.New(redis.Config{Client: rdb, KeyPrefix: v.GetString("key-prefix")})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	opts := depcache.Options[json.RawMessage]{
		Namespace:    v.GetString("namespace"),
		TagNamespace: v.GetString("tag-namespace"),
		Provider:     p,
		Codec:        codec.JSON[json.RawMessage]{},
		Logger:       depzap.New(log),
	}
	if v.GetString("tag-store") == "redis" {
		opts.TagStore = tagstore.NewRedisStoreWithConfig(tagstore.RedisConfig{
			Client:    rdb,
			KeyPrefix: v.GetString("key-prefix"),
		})
	}

	c, err := depcache.New(opts)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &session{cache: c, rdb: rdb, log: log}, nil
}
