/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
// @title           CloudRunway Termination API
// @version         1.0
// @description     Subscription contract termination request API server
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
package main

import "github.com/Srikar1995/cloudrunway-develop/cmd"

func main() {
	cmd.Execute()
}
