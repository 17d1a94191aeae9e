package sqlinline

const QSelectEngineSettings = `--sql 1deb1203-9d90-48ed-91bd-e897be5be78c
select engine, coalesce(chat_api_key, '')
from engine_settings
where id = true
limit 1;
`

const QUpsertEngineSettings = `--sql 06e61e49-9b81-4d0a-98a9-fbdb077574bf
insert into engine_settings(id, engine, chat_api_key, updated_at)
values (true, $1::text, nullif($2::text, ''), now())
on conflict (id) do update
set engine = excluded.engine,
    chat_api_key = coalesce(excluded.chat_api_key, engine_settings.chat_api_key),
    updated_at = now();
`
