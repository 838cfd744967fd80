package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/drinkrate/drinkrate/config"
	"github.com/drinkrate/drinkrate/database"
	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/util/common"
	"github.com/drinkrate/drinkrate/web"
	"github.com/drinkrate/drinkrate/web/cache"
	"github.com/drinkrate/drinkrate/web/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func initDB() error {
	return database.InitDB(config.GetDatabaseConfig())
}

func runWebServer() error {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		return err
	}
	logger.InitLogger(level)
	defer logger.CloseLogger()

	if err := initDB(); err != nil {
		logger.Error("init database err:", err)
		return err
	}

	server := web.NewServer()
	if err := server.Start(); err != nil {
		logger.Error("start server err:", err)
		if err := common.Combine(cache.Close(), database.CloseDB()); err != nil {
			logger.Warning("shutdown err:", err)
		}
		return err
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting server...")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				logger.Error("restart server err:", err)
				if err := common.Combine(cache.Close(), database.CloseDB()); err != nil {
					logger.Warning("shutdown err:", err)
				}
				return err
			}
		default:
			logger.Info("Shutting down server...")
			err := common.Combine(server.Stop(), cache.Close(), database.CloseDB())
			if err != nil {
				logger.Warning("shutdown err:", err)
			}
			return nil
		}
	}
}

func resetSetting() {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	settingService := service.SettingService{}
	if err := settingService.ResetSettings(); err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func showSetting() {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	settingService := service.SettingService{}
	allSetting, err := settingService.GetAllSetting()
	if err != nil {
		fmt.Println("get current settings failed, error info:", err)
		return
	}
	fmt.Println("current settings as follows:")
	fmt.Println("listen:", allSetting.WebListen)
	fmt.Println("port:", allSetting.WebPort)
	fmt.Println("basePath:", allSetting.WebBasePath)
	fmt.Println("sessionMaxAge:", allSetting.SessionMaxAge)
	fmt.Println("certFile:", allSetting.WebCertFile)
	fmt.Println("keyFile:", allSetting.WebKeyFile)
	fmt.Println("timeLocation:", allSetting.TimeLocation)
	fmt.Println("checkpointCron:", allSetting.CheckpointCron)
	fmt.Println("sessionStore:", config.GetSessionStore())
}

func updateSetting(cmd *cobra.Command) {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	settingService := service.SettingService{}
	flags := cmd.Flags()

	if flags.Changed("port") {
		port, _ := flags.GetInt("port")
		if err := settingService.SetPort(port); err != nil {
			fmt.Println("set port failed:", err)
		} else {
			fmt.Printf("set port %v success\n", port)
		}
	}
	if flags.Changed("listen") {
		listen, _ := flags.GetString("listen")
		if err := settingService.SetListen(listen); err != nil {
			fmt.Println("set listen failed:", err)
		} else {
			fmt.Printf("set listen %q success\n", listen)
		}
	}
	if flags.Changed("basePath") {
		basePath, _ := flags.GetString("basePath")
		if err := settingService.SetBasePath(basePath); err != nil {
			fmt.Println("set base path failed:", err)
		} else {
			fmt.Printf("set base path %v success\n", basePath)
		}
	}
	if flags.Changed("sessionMaxAge") {
		maxAge, _ := flags.GetInt("sessionMaxAge")
		if err := settingService.SetSessionMaxAge(maxAge); err != nil {
			fmt.Println("set session max age failed:", err)
		} else {
			fmt.Printf("set session max age %v minutes success\n", maxAge)
		}
	}
	if flags.Changed("webCert") || flags.Changed("webCertKey") {
		certFile, _ := flags.GetString("webCert")
		keyFile, _ := flags.GetString("webCertKey")
		if err := settingService.SetCert(certFile, keyFile); err != nil {
			fmt.Println("set certificate failed:", err)
		} else {
			fmt.Printf("set certificate %q key %q success\n", certFile, keyFile)
		}
	}
	if flags.Changed("timeLocation") {
		location, _ := flags.GetString("timeLocation")
		if err := settingService.SetTimeLocation(location); err != nil {
			fmt.Println("set time location failed:", err)
		} else {
			fmt.Printf("set time location %v success\n", location)
		}
	}
	if flags.Changed("checkpointCron") {
		spec, _ := flags.GetString("checkpointCron")
		if err := settingService.SetCheckpointCron(spec); err != nil {
			fmt.Println("set checkpoint cron failed:", err)
		} else {
			fmt.Printf("set checkpoint cron %q success\n", spec)
		}
	}
}

func addAccount(username string, password string) {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	accountService := service.AccountService{}
	id, err := accountService.Register(username, password)
	if err != nil {
		fmt.Println("add account failed:", err)
		return
	}
	fmt.Printf("account %q created with id %d\n", username, id)
}

// loadEnv reads .env from the working directory when it exists.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("load .env failed:", err)
	}
}

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:          "run",
		Short:        "Run the web server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Set settings",
	}

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset all settings",
		Run: func(cmd *cobra.Command, args []string) {
			resetSetting()
		},
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			updateSetting(cmd)
		},
	}

	updateCmd.Flags().Int("port", 0, "set web port")
	updateCmd.Flags().String("listen", "", "set web listen address")
	updateCmd.Flags().String("basePath", "", "set web base path")
	updateCmd.Flags().Int("sessionMaxAge", 0, "set session max age in minutes")
	updateCmd.Flags().String("webCert", "", "set certificate file for HTTPS, empty to disable")
	updateCmd.Flags().String("webCertKey", "", "set certificate key file for HTTPS, empty to disable")
	updateCmd.Flags().String("timeLocation", "", "set time location for scheduled jobs")
	updateCmd.Flags().String("checkpointCron", "", "set schedule of the database checkpoint job")

	var accountCmd = &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	var addCmd = &cobra.Command{
		Use:   "add",
		Short: "Register a new account",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			addAccount(username, password)
		},
	}

	addCmd.Flags().String("username", "", "account username")
	addCmd.Flags().String("password", "", "account password")
	_ = addCmd.MarkFlagRequired("username")
	_ = addCmd.MarkFlagRequired("password")

	settingCmd.AddCommand(resetCmd, showCmd, updateCmd)
	accountCmd.AddCommand(addCmd)

	rootCmd.AddCommand(runCmd, settingCmd, accountCmd)
	return rootCmd
}

func main() {
	loadEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
