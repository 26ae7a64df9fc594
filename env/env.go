package env

import (
	"os"
	"strconv"
)

type Env struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
}

type ServerConfig struct {
	Port int
}

type MongoDBConfig struct {
	URI string
	DB  string
}

const (
	defaultServerPort = 8080
	defaultMongoDBURI = "mongodb://localhost:27017"
	defaultMongoDBDB  = "library_db"
)

var setupEnv = false
var env = Env{}

func GetEnv() (*Env, error) {

	if !setupEnv {

		serverPort := defaultServerPort
		if raw := os.Getenv("SERVER_PORT"); raw != "" {

			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, err
			}

			serverPort = parsed
		}

		mongoDBURI := os.Getenv("MONGODB_URI")
		if mongoDBURI == "" {
			mongoDBURI = defaultMongoDBURI
		}

		mongoDBName := os.Getenv("MONGODB_NAME")
		if mongoDBName == "" {
			mongoDBName = defaultMongoDBDB
		}

		env = Env{
			Server: ServerConfig{
				Port: serverPort,
			},
			MongoDB: MongoDBConfig{
				URI: mongoDBURI,
				DB:  mongoDBName,
			},
		}

		setupEnv = true
	}

	return &env, nil
}
