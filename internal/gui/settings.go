package gui

import (
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/viper"

	"codeberg.org/snonux/biread/internal/cli"
	"codeberg.org/snonux/biread/internal/translate"
)

// onSettings shows the provider settings dialog. Saved values go to the
// viper config file and take effect on the next translation run.
func (a *Application) onSettings() {
	providerSelect := widget.NewSelect([]string{"google", "openai", "gemini", "baidu", "youdao"}, nil)
	providerSelect.SetSelected(a.flags.Provider)

	openaiKey := widget.NewPasswordEntry()
	openaiKey.SetText(viper.GetString("translate.openai_key"))
	openaiModel := widget.NewEntry()
	openaiModel.SetText(a.flags.OpenAIModel)

	geminiKey := widget.NewPasswordEntry()
	geminiKey.SetText(viper.GetString("translate.gemini_key"))
	geminiModel := widget.NewEntry()
	geminiModel.SetText(a.flags.GeminiModel)

	baiduAppID := widget.NewEntry()
	baiduAppID.SetText(viper.GetString("translate.baidu_appid"))
	baiduKey := widget.NewPasswordEntry()
	baiduKey.SetText(viper.GetString("translate.baidu_key"))

	youdaoAppKey := widget.NewEntry()
	youdaoAppKey.SetText(viper.GetString("translate.youdao_app_key"))
	youdaoAppSecret := widget.NewPasswordEntry()
	youdaoAppSecret.SetText(viper.GetString("translate.youdao_app_secret"))

	items := []*widget.FormItem{
		widget.NewFormItem("Provider", providerSelect),
		widget.NewFormItem("OpenAI API key", openaiKey),
		widget.NewFormItem("OpenAI model", openaiModel),
		widget.NewFormItem("Gemini API key", geminiKey),
		widget.NewFormItem("Gemini model", geminiModel),
		widget.NewFormItem("Baidu app ID", baiduAppID),
		widget.NewFormItem("Baidu key", baiduKey),
		widget.NewFormItem("Youdao app key", youdaoAppKey),
		widget.NewFormItem("Youdao app secret", youdaoAppSecret),
	}

	dialog.ShowForm("Translation Settings", "Save", "Cancel", items, func(save bool) {
		if !save {
			return
		}

		viper.Set("translate.provider", providerSelect.Selected)
		viper.Set("translate.openai_key", openaiKey.Text)
		viper.Set("translate.openai_model", openaiModel.Text)
		viper.Set("translate.gemini_key", geminiKey.Text)
		viper.Set("translate.gemini_model", geminiModel.Text)
		viper.Set("translate.baidu_appid", baiduAppID.Text)
		viper.Set("translate.baidu_key", baiduKey.Text)
		viper.Set("translate.youdao_app_key", youdaoAppKey.Text)
		viper.Set("translate.youdao_app_secret", youdaoAppSecret.Text)

		if err := viper.WriteConfig(); err != nil {
			// No config file yet, create one in the home directory
			home, _ := os.UserHomeDir()
			if err := viper.WriteConfigAs(filepath.Join(home, ".biread.yaml")); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
		}

		a.flags.Provider = providerSelect.Selected
		a.flags.OpenAIModel = openaiModel.Text
		a.flags.GeminiModel = geminiModel.Text
		a.rebuildProvider()
	}, a.window)
}

// rebuildProvider swaps the scheduler's provider for the configured one.
// Running translations keep the provider they started with.
func (a *Application) rebuildProvider() {
	provider, err := translate.NewProvider(cli.ProviderConfig(a.flags))
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.sched.SetProvider(provider)
	a.providerLabel.SetText(a.flags.Provider)
}
