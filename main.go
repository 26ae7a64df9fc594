package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	booksAPI "github.com/libro-dev/library-api/apis/books"
	borrowsAPI "github.com/libro-dev/library-api/apis/borrows"
	"github.com/libro-dev/library-api/env"
	"github.com/libro-dev/library-api/mongodb"
)

func main() {

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	currentEnv, err := env.GetEnv()
	if err != nil {
		slog.Error("Read environment failed", "error", err)
		return
	}

	conn := mongodb.New(currentEnv.MongoDB.URI, currentEnv.MongoDB.DB)
	if err := conn.Connect(); err != nil {
		slog.Error("Create MongoDB connection failed", "error", err)
		return
	}

	defer conn.Disconnect()

	newBooksAPI, err := booksAPI.NewBooksAPI(&conn)
	if err != nil {
		slog.Error("Create books API failed", "error", err)
		return
	}

	newBorrowsAPI, err := borrowsAPI.NewBorrowsAPI(&conn, newBooksAPI.Model())
	if err != nil {
		slog.Error("Create borrows API failed", "error", err)
		return
	}

	g := gin.Default()

	g.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Library server running")
	})

	api := g.Group("api")
	newBooksAPI.RegisterRoutes(api.Group("books"))
	newBorrowsAPI.RegisterRoutes(api)

	if err := g.Run(fmt.Sprintf(":%d", currentEnv.Server.Port)); err != nil {
		slog.Error("Run server failed", "error", err)
		return
	}
}
