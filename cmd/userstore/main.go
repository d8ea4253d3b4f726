/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/userstore"
	"github.com/tomoncle/userstore/config"
	"github.com/tomoncle/userstore/database"
	"github.com/tomoncle/userstore/model"
	"github.com/tomoncle/userstore/utils"
)

var log = utils.NewLogger("USERSTORE")

func main() {
	configPath := flag.String("config", "", "YAML configuration file (default $"+config.PathEnv+")")
	migrate := flag.Bool("migrate", false, "create missing tables before querying")
	username := flag.String("username", "", "list only users whose name contains this value")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Load configuration failed")
	}
	cfg.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := database.NewPool(&cfg.Database, nil)
	if err := pool.Connect(ctx); err != nil {
		log.WithError(err).Fatal("Connect database failed")
	}
	defer func() {
		if err := pool.Disconnect(); err != nil {
			log.WithError(err).Error("Disconnect database failed")
		}
	}()

	if *migrate {
		if err := pool.Migrate(ctx); err != nil {
			log.WithError(err).Error("Create tables failed")
			return
		}
	}

	users := userstore.NewUserService(pool)
	if *username == "" {
		all, err := users.All(ctx)
		if err != nil {
			log.WithError(err).Error("Fetch users failed")
			return
		}
		log.Infof("Fetched %d users", len(all))
		for _, u := range all {
			logUser(u)
		}
		return
	}

	page, err := users.Page(ctx, (&model.PageRequest{}).WithUsername(*username))
	if err != nil {
		log.WithError(err).Error("Fetch users failed")
		return
	}
	log.Infof("Matched %d users, showing page %d of %d", page.Total, page.Page, page.Pages())
	for _, u := range page.Items {
		logUser(u)
	}
}

func logUser(u *model.User) {
	log.WithFields(logrus.Fields{
		"id":       u.ID,
		"username": u.Username,
		"enable":   u.Flag().Name(),
		"created":  u.CreateTime.Format("2006-01-02 15:04:05"),
	}).Info("User")
}
