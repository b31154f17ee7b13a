package main

import (
	"log"
	"os"

	"github.com/5h1v4n1-2025/daruma/pkg"
	"github.com/spf13/viper"
)

func main() {
	initConfig()

	cmd, err := pkg.NewCommand()
	if err != nil {
		log.Fatalln(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	// First, look in the current directory
	viper.AddConfigPath(".")

	// Fallback to the user's home directory
	home, err := os.UserHomeDir()
	if err != nil {
		log.Println("Error getting user home directory:", err)
		return
	}
	viper.AddConfigPath(home)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found in current directory or home directory")
		} else {
			log.Println("Error reading config file:", err)
		}
		return
	}
}
