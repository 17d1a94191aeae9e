package sqlinline

const QInsertAsset = `--sql 617b0c26-c9bd-4690-9ba4-9c2c7c878c3f
insert into assets(
  id,
  filename,
  mime,
  kind,
  storage_key,
  bytes,
  status,
  created_at,
  updated_at
) values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::text,
  $5::text,
  $6::bigint,
  'idle',
  now(),
  now()
) returning id;
`

const QSelectAssetByID = `--sql ac7809b7-042d-4e94-b383-79cd5a854c6b
select
  id,
  filename,
  mime,
  kind,
  storage_key,
  bytes,
  status,
  coalesce(title, ''),
  coalesce(description, ''),
  coalesce(keywords, ''),
  coalesce(main_tag, ''),
  coalesce(category1, ''),
  coalesce(category2, ''),
  created_at,
  updated_at
from assets
where id = $1::uuid
limit 1;
`

const QListAssets = `--sql e2684a5b-3ae8-419a-9298-8ea93ea45341
select
  id,
  filename,
  mime,
  kind,
  storage_key,
  bytes,
  status,
  coalesce(title, ''),
  coalesce(description, ''),
  coalesce(keywords, ''),
  coalesce(main_tag, ''),
  coalesce(category1, ''),
  coalesce(category2, ''),
  created_at,
  updated_at
from assets
order by created_at asc;
`

const QUpdateAssetStatus = `--sql c15b973d-bea2-4e78-b922-ab61b7654cda
update assets
set status = $2::text,
    updated_at = now()
where id = $1::uuid;
`

const QSaveAssetMetadata = `--sql e2d82f81-8e66-46ec-8e82-19c10f79272d
update assets
set status = 'success',
    title = $2::text,
    description = $3::text,
    keywords = $4::text,
    main_tag = nullif($5::text, ''),
    category1 = nullif($6::text, ''),
    category2 = nullif($7::text, ''),
    updated_at = now()
where id = $1::uuid;
`

const QDeleteAsset = `--sql 2db048df-d8aa-4435-84cf-f1bf83fe7cd6
delete from assets
where id = $1::uuid;
`
