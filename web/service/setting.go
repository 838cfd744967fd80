package service

import (
	"crypto/tls"
	"strconv"
	"strings"
	"time"

	"github.com/drinkrate/drinkrate/database"
	"github.com/drinkrate/drinkrate/database/model"
	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/util/common"
	"github.com/drinkrate/drinkrate/util/random"
	"github.com/drinkrate/drinkrate/web/entity"

	"github.com/robfig/cron/v3"
)

var defaultValueMap = map[string]string{
	"webListen":      "",
	"webPort":        "5000",
	"webCertFile":    "",
	"webKeyFile":     "",
	"secret":         random.Seq(32),
	"webBasePath":    "/",
	"sessionMaxAge":  "60",
	"timeLocation":   "UTC",
	"checkpointCron": "@daily",
}

type SettingService struct{}

func (s *SettingService) GetAllSetting() (*entity.AllSetting, error) {
	allSetting := &entity.AllSetting{}
	var err error
	var errs []error
	collect := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	allSetting.WebListen, err = s.GetListen()
	collect(err)
	allSetting.WebPort, err = s.GetPort()
	collect(err)
	allSetting.WebCertFile, err = s.GetCertFile()
	collect(err)
	allSetting.WebKeyFile, err = s.GetKeyFile()
	collect(err)
	allSetting.WebBasePath, err = s.GetBasePath()
	collect(err)
	allSetting.SessionMaxAge, err = s.GetSessionMaxAge()
	collect(err)
	allSetting.TimeLocation, err = s.getString("timeLocation")
	collect(err)
	allSetting.CheckpointCron, err = s.GetCheckpointCron()
	collect(err)

	if err := common.Combine(errs...); err != nil {
		return nil, err
	}
	return allSetting, nil
}

// ResetSettings removes every stored setting, including the session secret,
// so that all existing sessions become invalid.
func (s *SettingService) ResetSettings() error {
	db := database.GetDB()
	return db.Where("1 = 1").Delete(model.Setting{}).Error
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Key = key
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) SetListen(ip string) error {
	return s.setString("webListen", ip)
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	if port <= 0 || port > 65535 {
		return common.NewErrorf("web port is not a valid port: %d", port)
	}
	return s.setInt("webPort", port)
}

// SetCert stores the certificate and key served over HTTPS. Both must be empty
// to serve plain HTTP, otherwise they must load as a key pair.
func (s *SettingService) SetCert(certFile string, keyFile string) error {
	if certFile != "" || keyFile != "" {
		if _, err := tls.LoadX509KeyPair(certFile, keyFile); err != nil {
			return common.NewErrorf("cert file <%v> or key file <%v> invalid: %v", certFile, keyFile, err)
		}
	}
	return common.Combine(s.setString("webCertFile", certFile), s.setString("webKeyFile", keyFile))
}

func (s *SettingService) GetCertFile() (string, error) {
	return s.getString("webCertFile")
}

func (s *SettingService) GetKeyFile() (string, error) {
	return s.getString("webKeyFile")
}

// GetSessionMaxAge returns the session lifetime in minutes.
func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

func (s *SettingService) SetSessionMaxAge(minutes int) error {
	if minutes <= 0 {
		return common.NewErrorf("session max age must be positive: %d", minutes)
	}
	return s.setInt("sessionMaxAge", minutes)
}

func (s *SettingService) GetCheckpointCron() (string, error) {
	return s.getString("checkpointCron")
}

func (s *SettingService) SetCheckpointCron(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return common.NewErrorf("checkpoint cron <%v> invalid: %v", spec, err)
	}
	return s.setString("checkpointCron", spec)
}

// GetSecret returns the session signing secret. The generated default is
// persisted on first use so it survives restarts.
func (s *SettingService) GetSecret() ([]byte, error) {
	secret, err := s.getString("secret")
	if secret == defaultValueMap["secret"] {
		err := s.saveSetting("secret", secret)
		if err != nil {
			logger.Warning("save secret failed:", err)
		}
	}
	return []byte(secret), err
}

func (s *SettingService) SetBasePath(basePath string) error {
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return s.setString("webBasePath", basePath)
}

func (s *SettingService) GetBasePath() (string, error) {
	basePath, err := s.getString("webBasePath")
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath, nil
}

func (s *SettingService) SetTimeLocation(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return common.NewErrorf("time location not exist: %s", name)
	}
	return s.setString("timeLocation", name)
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		defaultLocation := defaultValueMap["timeLocation"]
		logger.Errorf("location <%v> not exist, using default location: %v", l, defaultLocation)
		return time.LoadLocation(defaultLocation)
	}
	return location, nil
}
